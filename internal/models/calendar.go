package models

import "time"

// EventPriority ranks calendar items.
type EventPriority string

const (
	PriorityHigh   EventPriority = "high"
	PriorityMedium EventPriority = "medium"
	PriorityLow    EventPriority = "low"
)

// EventType distinguishes todos from scheduled events.
type EventType string

const (
	EventTypeTodo  EventType = "todo"
	EventTypeEvent EventType = "event"
)

// CalendarEvent is a scheduled item owned by its creator within a semester.
type CalendarEvent struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	StartAt     time.Time     `db:"start_at" json:"start"`
	EndAt       time.Time     `db:"end_at" json:"end"`
	Priority    EventPriority `db:"priority" json:"priority"`
	Type        EventType     `db:"type" json:"type"`
	IsCompleted bool          `db:"is_completed" json:"is_completed"`
	Link        *string       `db:"link" json:"link,omitempty"`
	LinkLabel   *string       `db:"link_label" json:"link_label,omitempty"`
	SemesterID  string        `db:"semester_id" json:"semester_id"`
	CreatedBy   string        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// CalendarFilter narrows down the caller's events.
type CalendarFilter struct {
	OwnerID    string
	SemesterID string
	From       *time.Time
	To         *time.Time
}

// CreateCalendarEventRequest schedules a new item.
type CreateCalendarEventRequest struct {
	Title       string        `json:"title" validate:"required,min=1,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	Start       time.Time     `json:"start" validate:"required"`
	End         time.Time     `json:"end" validate:"required"`
	Priority    EventPriority `json:"priority" validate:"omitempty,oneof=high medium low"`
	Type        EventType     `json:"type" validate:"omitempty,oneof=todo event"`
	Link        string        `json:"link" validate:"omitempty,url"`
	LinkLabel   string        `json:"link_label" validate:"omitempty,max=100"`
	SemesterID  string        `json:"semester_id" validate:"required,uuid"`
}

// UpdateCalendarEventRequest edits an item. Only provided fields change.
type UpdateCalendarEventRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Start       *time.Time     `json:"start"`
	End         *time.Time     `json:"end"`
	Priority    *EventPriority `json:"priority" validate:"omitempty,oneof=high medium low"`
	Type        *EventType     `json:"type" validate:"omitempty,oneof=todo event"`
	Link        *string        `json:"link" validate:"omitempty,url"`
	LinkLabel   *string        `json:"link_label" validate:"omitempty,max=100"`
	IsCompleted *bool          `json:"is_completed"`
}
