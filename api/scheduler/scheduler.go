// Package scheduler runs the periodic report retention sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper deletes expired reports and returns how many went away.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Scheduler handles periodic background jobs for report retention
type Scheduler struct {
	cron    *cron.Cron
	Sweeper Sweeper
}

// NewScheduler creates a new scheduler instance
func NewScheduler(sweeper Sweeper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		Sweeper: sweeper,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep expired reports at the top of every hour. The retention
	// promise is 48 hours, so hourly keeps the worst-case overshoot
	// under an hour.
	_, err := s.cron.AddFunc("0 * * * *", s.sweepExpiredReports)
	if err != nil {
		zap.S().Errorw("failed to register report sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Report retention scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Report retention scheduler stopped")
}

func (s *Scheduler) sweepExpiredReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.Sweeper.Sweep(ctx); err != nil {
		zap.S().Errorw("report retention sweep failed", "error", err)
	}
}
