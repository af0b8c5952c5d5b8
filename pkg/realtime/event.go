// Package realtime delivers best-effort notifications to connected WebSocket clients.
package realtime

import (
	"context"
	"time"
)

// Event types emitted to clients.
const (
	EventMessageNew  = "message.new"
	EventMessageRead = "message.read"
)

// Event is the JSON frame pushed to a client.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, CreatedAt: time.Now().UTC()}
}

// Publisher pushes an event to every session of a user.
type Publisher interface {
	Publish(ctx context.Context, userID string, event Event) error
}
