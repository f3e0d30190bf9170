// internal/matching/scheduler.go

package matching

import (
	"context"
	"errors"
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
)

// Scheduler runs periodic background work
type Scheduler struct {
	service  Service
	interval time.Duration
	cleanup  func(context.Context) error
	log      *logger.Logger
}

// NewScheduler creates a scheduler. interval 0 disables scheduled batch runs;
// cleanup, if set, runs hourly.
func NewScheduler(service Service, interval time.Duration, cleanup func(context.Context) error, log *logger.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
		cleanup:  cleanup,
		log:      log.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if s.interval > 0 {
		go s.runEvery(ctx, "batch_match", s.interval, s.runBatch)
	}
	if s.cleanup != nil {
		go s.runEvery(ctx, "otp_cleanup", time.Hour, s.cleanup)
	}
}

func (s *Scheduler) runBatch(ctx context.Context) error {
	_, err := s.service.RunBatchMatch(ctx)
	if errors.Is(err, ErrBatchInProgress) {
		s.log.Info("batch match skipped, another run holds the lock")
		return nil
	}
	return err
}

func (s *Scheduler) runEvery(ctx context.Context, name string, every time.Duration, task func(context.Context) error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.log.Error("scheduled task failed", "task", name, "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
