package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/sevadhara/console/jobs"
)

// JobsCLI inspects the WhatsApp queue the console feeds.
type JobsCLI struct {
	inspector *asynq.Inspector
}

// NewJobsCLI connects to the queue's Redis.
func NewJobsCLI(redisOpts asynq.RedisConnOpt) *JobsCLI {
	return &JobsCLI{inspector: asynq.NewInspector(redisOpts)}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	if c == nil || c.inspector == nil {
		return nil
	}
	return c.inspector.Close()
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
}

// InspectQueue reports counts for the default queue.
func (c *JobsCLI) InspectQueue(_ context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

// ListFailed returns WhatsApp sends that exhausted their retries.
func (c *JobsCLI) ListFailed(_ context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListArchivedTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

func newQueueCommand(app *App) *cobra.Command {
	var (
		redisAddr string
		failed    int
	)
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the WhatsApp send queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if redisAddr == "" {
				p, _, err := app.loadProfile()
				if err != nil {
					return err
				}
				redisAddr = p.RedisAddr
			}
			if redisAddr == "" {
				return errors.New("redis address required: pass --redis or set redis_addr in the profile")
			}
			jc := NewJobsCLI(asynq.RedisClientOpt{Addr: redisAddr})
			defer func() { _ = jc.Close() }()

			stats, err := jc.InspectQueue(cmd.Context())
			if err != nil {
				return fmt.Errorf("inspect queue: %w", err)
			}
			app.printf("queue %s: pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
			if failed > 0 && stats.Archived > 0 {
				tasks, err := jc.ListFailed(cmd.Context(), failed)
				if err != nil {
					return fmt.Errorf("list failed: %w", err)
				}
				for _, t := range tasks {
					app.printf("  %s %s: %s\n", t.ID, t.Type, t.LastErr)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address of the queue")
	cmd.Flags().IntVar(&failed, "failed", 0, "list up to N failed sends")
	return cmd
}
