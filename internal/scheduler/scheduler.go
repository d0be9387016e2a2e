package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
)

const defaultInterval = time.Minute

// Checker is anything whose health can be probed, typically the record store.
type Checker interface {
	CheckStore(ctx context.Context) error
}

// Scheduler periodically probes the record store and remembers the outcome.
type Scheduler struct {
	scheduler *gocron.Scheduler
	checker   Checker
	interval  time.Duration
	logger    *slog.Logger
	onResult  func(up bool)

	healthy   atomic.Bool
	lastCheck atomic.Int64 // unix nanoseconds
}

// New creates a new Scheduler. onResult, if non-nil, is called after every probe.
func New(checker Checker, interval time.Duration, logger *slog.Logger, onResult func(up bool)) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
		logger:    logger,
		onResult:  onResult,
	}
}

// Start runs one probe immediately and schedules the rest.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.Probe)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Probe checks the store once.
func (s *Scheduler) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.checker.CheckStore(ctx)
	up := err == nil

	wasUp := s.healthy.Swap(up)
	s.lastCheck.Store(time.Now().UnixNano())

	switch {
	case !up:
		s.logger.Error("store probe failed", "error", err)
	case !wasUp:
		s.logger.Info("store reachable")
	default:
		s.logger.Debug("store probe ok")
	}

	if s.onResult != nil {
		s.onResult(up)
	}
}

// Healthy reports the outcome of the last probe.
func (s *Scheduler) Healthy() bool {
	return s.healthy.Load()
}

// LastCheck returns when the last probe finished, or the zero time.
func (s *Scheduler) LastCheck() time.Time {
	n := s.lastCheck.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
