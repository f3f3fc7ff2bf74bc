package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type RelayConfig struct {
	BatchSize   int
	MaxAttempts int
	Retention   time.Duration
}

type RelayStats struct {
	Sent   int
	Retry  int
	Failed int
}

// Relay drains the outbox into a Sink. Delivery is at-least-once: an
// event published just before a crash is published again.
type Relay struct {
	repo      *Repository
	sink      Sink
	cfg       RelayConfig
	scheduler gocron.Scheduler
}

func NewRelay(repo *Repository, sink Sink, cfg RelayConfig) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	return &Relay{repo: repo, sink: sink, cfg: cfg}
}

// RunOnce publishes one batch of pending events, oldest first.
func (r *Relay) RunOnce(ctx context.Context) (RelayStats, error) {
	var stats RelayStats
	events, err := r.repo.ListPending(ctx, r.cfg.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("list pending events: %w", err)
	}

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		pubErr := r.sink.Publish(ctx, e.Message())
		if pubErr == nil {
			if err := r.repo.MarkSent(ctx, e.ID); err != nil {
				return stats, fmt.Errorf("mark %s sent: %w", e.ID, err)
			}
			stats.Sent++
			continue
		}

		status, err := r.repo.RecordFailure(ctx, e, pubErr, r.cfg.MaxAttempts)
		if err != nil {
			return stats, fmt.Errorf("record failure for %s: %w", e.ID, err)
		}
		if status == StatusFailed {
			stats.Failed++
			log.Printf("outbox_event_failed id=%s kind=%s code=%s attempts=%d error=%q",
				e.ID, e.Kind, e.BookingCode, e.Attempts+1, pubErr.Error())
		} else {
			stats.Retry++
		}
	}
	return stats, nil
}

// Cleanup deletes sent events older than the retention window.
func (r *Relay) Cleanup(ctx context.Context) (int64, error) {
	if r.cfg.Retention <= 0 {
		return 0, nil
	}
	start := time.Now()
	deleted, err := r.repo.DeleteSentOlderThan(ctx, r.cfg.Retention)
	if err != nil {
		log.Printf("outbox_cleanup_failed error=%q", err.Error())
		return 0, err
	}
	log.Printf("outbox_cleanup deleted=%d took=%v", deleted, time.Since(start))
	return deleted, nil
}

// Start schedules RunOnce every interval and Cleanup hourly.
func (r *Relay) Start(interval time.Duration) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			stats, err := r.RunOnce(context.Background())
			if err != nil {
				log.Printf("outbox_relay_error error=%q", err.Error())
				return
			}
			if stats.Sent+stats.Retry+stats.Failed > 0 {
				log.Printf("outbox_relay sent=%d retry=%d failed=%d", stats.Sent, stats.Retry, stats.Failed)
			}
		}),
		gocron.WithName("outbox-relay"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule relay: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			_, _ = r.Cleanup(context.Background())
		}),
		gocron.WithName("outbox-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	s.Start()
	r.scheduler = s
	log.Printf("outbox relay started interval=%v batch=%d max_attempts=%d", interval, r.cfg.BatchSize, r.cfg.MaxAttempts)
	return nil
}

func (r *Relay) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	err := r.scheduler.Shutdown()
	r.scheduler = nil
	return err
}
