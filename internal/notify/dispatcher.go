package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevadhara/console/internal/upstream"
)

// Sender delivers a notification immediately.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Enqueuer hands a notification to the background queue. key makes the
// enqueue idempotent; token authorises the eventual API call.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, n Notification, token, key string) error
}

// Dispatcher sends through the queue when one is configured, otherwise
// directly.
type Dispatcher struct {
	sender Sender
	queue  Enqueuer
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher. queue may be nil.
func NewDispatcher(sender Sender, queue Enqueuer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, queue: queue, logger: logger}
}

// Queued reports whether sends go through the background queue.
func (d *Dispatcher) Queued() bool { return d != nil && d.queue != nil }

// Dispatch validates the recipient then queues or sends n.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification, key string) error {
	phone, err := NormalizePhone(n.Phone)
	if err != nil {
		return err
	}
	n.Phone = phone
	if n.Document != nil {
		n.Document.Phone = phone
	}
	if d.queue != nil {
		if err := d.queue.EnqueueNotification(ctx, n, upstream.TokenFromContext(ctx), key); err != nil {
			return fmt.Errorf("queue whatsapp: %w", err)
		}
		d.logger.Info("whatsapp queued", slog.String("key", key))
		return nil
	}
	if err := d.sender.Send(ctx, n); err != nil {
		return err
	}
	d.logger.Info("whatsapp sent", slog.String("key", key))
	return nil
}
