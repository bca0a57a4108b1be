// Package scheduler runs the periodic snapshot and the attention sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// Maintainer is the part of the maintenance service the timers drive.
type Maintainer interface {
	SaveNow(ctx context.Context) error
	Sweep(ctx context.Context) model.Attention
}

// Scheduler fires SaveNow and Sweep on fixed intervals.
type Scheduler struct {
	maint         Maintainer
	snapshotEvery time.Duration
	sweepEvery    time.Duration
	logger        zerolog.Logger
}

// New creates a scheduler. Both intervals must be positive.
func New(maint Maintainer, snapshotEvery, sweepEvery time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		maint:         maint,
		snapshotEvery: snapshotEvery,
		sweepEvery:    sweepEvery,
		logger:        logger.With().Str("component", "scheduler").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	snapshots := time.NewTicker(s.snapshotEvery)
	defer snapshots.Stop()
	sweeps := time.NewTicker(s.sweepEvery)
	defer sweeps.Stop()

	s.logger.Info().
		Dur("snapshot_every", s.snapshotEvery).
		Dur("sweep_every", s.sweepEvery).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-snapshots.C:
			if err := s.maint.SaveNow(ctx); err != nil {
				s.logger.Error().Err(err).Msg("periodic snapshot failed")
			}
		case <-sweeps.C:
			attention := s.maint.Sweep(ctx)
			s.logger.Debug().
				Int("overdue", len(attention.Overdue)).
				Int("long_pending", len(attention.LongPending)).
				Msg("attention sweep finished")
		}
	}
}
