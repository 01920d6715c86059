package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer drops staged images older than maxAge.
type Expirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// Janitor periodically discards staged listing images that were never
// delivered to the backend.
type Janitor struct {
	expirer  Expirer
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewJanitor(expirer Expirer, schedule string, maxAge time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		expirer:  expirer,
		maxAge:   maxAge,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start schedules the sweep. ctx bounds each run; Stop halts the schedule.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.Info("staging janitor started", "schedule", j.schedule, "max_age", j.maxAge)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce performs a single sweep.
func (j *Janitor) RunOnce(ctx context.Context) int {
	n, err := j.expirer.ExpireStale(ctx, j.maxAge)
	if err != nil {
		j.logger.Error("staging sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		j.logger.Info("expired staged images", "count", n)
	}
	return n
}
