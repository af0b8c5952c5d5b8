package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/pkg/jobs"
	"github.com/noah-isme/school-connect-api/pkg/realtime"
)

// Notifier is the outbound port for best-effort real-time events.
// Implementations must not block the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID string, event realtime.Event)
}

// NoopNotifier discards every event.
type NoopNotifier struct{}

// Notify implements Notifier.
func (NoopNotifier) Notify(context.Context, string, realtime.Event) {}

type notification struct {
	UserID string
	Event  realtime.Event
}

// QueueNotifier hands events to a worker pool which publishes them without retries.
type QueueNotifier struct {
	queue     *jobs.Queue
	publisher realtime.Publisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewQueueNotifier builds a notifier publishing through publisher. Call Start before use.
func NewQueueNotifier(publisher realtime.Publisher, metrics *MetricsService, logger *zap.Logger, workers, buffer int) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &QueueNotifier{publisher: publisher, metrics: metrics, logger: logger}
	n.queue = jobs.NewQueue("realtime-notifications", n.handle, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: buffer,
		MaxRetries: -1,
		Logger:     logger,
		OnFailure: func(job jobs.Job, err error) {
			if note, ok := job.Payload.(notification); ok {
				n.metrics.RecordNotification(note.Event.Type, NotificationFailed)
			}
		},
	})
	return n
}

// Start launches the dispatch workers.
func (n *QueueNotifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (n *QueueNotifier) Stop() {
	n.queue.Stop()
}

// Notify implements Notifier. Events are dropped when the queue is full or stopped.
func (n *QueueNotifier) Notify(_ context.Context, userID string, event realtime.Event) {
	job := jobs.Job{ID: uuid.NewString(), Type: event.Type, Payload: notification{UserID: userID, Event: event}}
	if err := n.queue.TryEnqueue(job); err != nil {
		n.metrics.RecordNotification(event.Type, NotificationDropped)
		n.logger.Warn("notification dropped", zap.String("user_id", userID), zap.String("event", event.Type), zap.Error(err))
	}
}

func (n *QueueNotifier) handle(ctx context.Context, job jobs.Job) error {
	note, ok := job.Payload.(notification)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	err := n.publisher.Publish(ctx, note.UserID, note.Event)
	switch {
	case err == nil:
		n.metrics.RecordNotification(note.Event.Type, NotificationDelivered)
		return nil
	case errors.Is(err, realtime.ErrNotConnected):
		n.metrics.RecordNotification(note.Event.Type, NotificationDropped)
		return nil
	default:
		return err
	}
}
