package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type envelope struct {
	UserID string `json:"userId"`
	Event  Event  `json:"event"`
}

// RedisBridge fans events out to every API instance through a Redis pub/sub channel.
// Each instance delivers the events it receives to its local hub.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRedisBridge wires a hub to a Redis channel.
func NewRedisBridge(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *RedisBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBridge{client: client, channel: channel, hub: hub, logger: logger}
}

// Publish sends the event to the shared channel.
func (b *RedisBridge) Publish(ctx context.Context, userID string, event Event) error {
	payload, err := json.Marshal(envelope{UserID: userID, Event: event})
	if err != nil {
		return fmt.Errorf("encode realtime envelope: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish realtime event: %w", err)
	}
	return nil
}

// Run subscribes to the channel and forwards events to the local hub until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("realtime bridge subscribed", zap.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.dispatch([]byte(msg.Payload))
		}
	}
}

func (b *RedisBridge) dispatch(payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		b.logger.Warn("discarding malformed realtime envelope", zap.Error(err))
		return
	}
	if env.UserID == "" {
		return
	}
	raw, err := json.Marshal(env.Event)
	if err != nil {
		return
	}
	if err := b.hub.deliver(env.UserID, raw); err != nil && !errors.Is(err, ErrNotConnected) {
		b.logger.Warn("realtime delivery failed", zap.String("user_id", env.UserID), zap.Error(err))
	}
}
