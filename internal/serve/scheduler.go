package serve

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// rebuildSchedule runs periodic rebuilds, useful for content with future
// publish dates or git-dated documents that change outside the watcher's
// view. Nil when no interval is configured.
type rebuildSchedule struct {
	scheduler gocron.Scheduler
}

// startRebuildSchedule parses the configured interval and starts a gocron
// job that posts rebuild requests. An empty interval returns a nil schedule,
// which Stop tolerates.
func startRebuildSchedule(every string, rebuildReq chan<- struct{}) (*rebuildSchedule, error) {
	if every == "" {
		return nil, nil
	}
	interval, err := time.ParseDuration(every)
	if err != nil {
		return nil, fmt.Errorf("invalid rebuild interval %q: %w", every, err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild tick")
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("scheduled-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rebuild job: %w", err)
	}

	scheduler.Start()
	slog.Info("Scheduled rebuilds enabled", slog.Duration("interval", interval))
	return &rebuildSchedule{scheduler: scheduler}, nil
}

// Stop shuts the scheduler down. Safe on a nil schedule.
func (r *rebuildSchedule) Stop() error {
	if r == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}
