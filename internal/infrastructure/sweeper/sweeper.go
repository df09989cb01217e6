// Package sweeper drives the periodic reconciliation sweep.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/adbilling/internal/usecase"
)

// Reconciler resolves unresolved billing transactions.
type Reconciler interface {
	Sweep(ctx context.Context) (*usecase.SweepReport, error)
}

// Purger forgets expired balance mutation dedupe records.
type Purger interface {
	PurgeExpiredMutations(ctx context.Context, now time.Time) (int64, error)
}

// Observer records sweep activity.
type Observer interface {
	ObserveSweep(duration time.Duration, err error)
	ObservePurge(n int64)
}

// Config for Sweeper.
type Config struct {
	Reconciler Reconciler
	Purger     Purger // optional, set when this process owns balance accounts
	Cleanup    func() // optional housekeeping run on every tick
	Observer   Observer
	Logger     zerolog.Logger
	Interval   time.Duration
}

// Sweeper runs the reconciliation sweep and dedupe purge on a ticker.
type Sweeper struct {
	reconciler Reconciler
	purger     Purger
	cleanup    func()
	observer   Observer
	logger     zerolog.Logger
	interval   time.Duration
	now        func() time.Time
}

// New creates a new Sweeper.
func New(cfg Config) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}

	return &Sweeper{
		reconciler: cfg.Reconciler,
		purger:     cfg.Purger,
		cleanup:    cfg.Cleanup,
		observer:   cfg.Observer,
		logger:     cfg.Logger.With().Str("component", "sweeper").Logger(),
		interval:   cfg.Interval,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start runs until the context is cancelled. The first sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep, one purge and the cleanup hook. Failures are
// logged; the next tick tries again.
func (s *Sweeper) RunOnce(ctx context.Context) {
	started := s.now()
	report, err := s.reconciler.Sweep(ctx)
	if s.observer != nil {
		s.observer.ObserveSweep(s.now().Sub(started), err)
	}

	switch {
	case err != nil:
		s.logger.Error().Err(err).Msg("sweep failed")
	case report.Examined > 0 || report.OrphansReleased > 0 || report.ReservationsHealed > 0:
		s.logger.Info().
			Int("examined", report.Examined).
			Int("settled", report.Settled).
			Int("failed", report.Failed).
			Int("unresolved", report.Unresolved).
			Int("resend_expired", report.ResendExpired).
			Int("errors", report.Errors).
			Int("orphans_released", report.OrphansReleased).
			Int("reservations_healed", report.ReservationsHealed).
			Dur("duration", report.Duration).
			Msg("sweep finished")
	}

	if s.purger != nil {
		n, err := s.purger.PurgeExpiredMutations(ctx, s.now())
		if err != nil {
			s.logger.Error().Err(err).Msg("purge of expired mutations failed")
		} else {
			if s.observer != nil {
				s.observer.ObservePurge(n)
			}
			if n > 0 {
				s.logger.Info().Int64("purged", n).Msg("expired mutations purged")
			}
		}
	}

	if s.cleanup != nil {
		s.cleanup()
	}
}
