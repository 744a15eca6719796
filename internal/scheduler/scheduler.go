package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/example/myglish/internal/logger"
	"github.com/go-co-op/gocron"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	snapshots Snapshotter
	interval  time.Duration
	log       *logger.Logger
}

// Snapshotter writes one snapshot of the store
type Snapshotter interface {
	RunOnce(ctx context.Context) (string, error)
}

// New creates a scheduler that takes a snapshot every interval
func New(snapshots Snapshotter, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		snapshots: snapshots,
		interval:  interval,
		log:       log,
	}
}

// Start takes a snapshot right away and then once per interval, without
// blocking. Jobs run until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid snapshot interval %s", s.interval)
	}
	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(s.interval).Do(s.takeSnapshot, ctx); err != nil {
		return fmt.Errorf("failed to schedule snapshots: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("snapshot scheduler started", "interval", s.interval)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("snapshot scheduler stopped")
}

func (s *Scheduler) takeSnapshot(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	path, err := s.snapshots.RunOnce(ctx)
	if err != nil {
		s.log.Error("snapshot failed", "error", err)
		return
	}
	s.log.Info("snapshot written", "path", path)
}
