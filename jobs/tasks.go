package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/sevadhara/console/internal/jobs"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/upstream"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWhatsAppSend delivers one WhatsApp text or document.
	TaskTypeWhatsAppSend = "whatsapp:send"
)

// WhatsAppPayload is the queued notification plus the bearer token of the
// operator who triggered it.
type WhatsAppPayload struct {
	Notification notify.Notification `json:"notification"`
	Token        string              `json:"token,omitempty"`
}

// NewWhatsAppTask constructs an Asynq task.
func NewWhatsAppTask(payload WhatsAppPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWhatsAppSend, data), nil
}

// WhatsAppJob processes TaskTypeWhatsAppSend tasks.
type WhatsAppJob struct {
	Sender  notify.Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewWhatsAppJob wires the job dependencies.
func NewWhatsAppJob(sender notify.Sender, logger *slog.Logger, metrics *jobmetrics.Metrics) *WhatsAppJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsAppJob{Sender: sender, Logger: logger, Metrics: metrics}
}

// Handle decodes the task and sends the notification. Malformed payloads and
// requests the API rejects as invalid are not retried.
func (j *WhatsAppJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload WhatsAppPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode whatsapp payload: %v: %w", err, asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(TaskTypeWhatsAppSend)
	if payload.Token != "" {
		ctx = upstream.WithToken(ctx, payload.Token)
	}
	err := j.Sender.Send(ctx, payload.Notification)
	if err != nil {
		j.Logger.Warn("whatsapp send failed", slog.String("task", t.Type()), slog.Any("error", err))
		if errors.Is(err, notify.ErrInvalidPhone) || errors.Is(err, httpx.ErrValidation) {
			err = fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return tracker.End(err)
	}
	kind := "text"
	if payload.Notification.Document != nil {
		kind = "document"
	}
	j.Metrics.AddDelivered(kind)
	return tracker.End(nil)
}
