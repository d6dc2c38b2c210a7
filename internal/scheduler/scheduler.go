// Package scheduler runs the periodic jobs of the server: the optional
// automatic month close and the purge of expired sessions.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"cubograf/m/domain"
)

// jobTimeout bounds a single run so a stuck database cannot pile up jobs.
const jobTimeout = 2 * time.Minute

type MonthCloser interface {
	CurrentPeriod() domain.Period
	CloseMonth(ctx context.Context, p domain.Period) (domain.MonthClosing, error)
}

type SessionPurger interface {
	Purge(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// AddMonthClose schedules the close of the month before the current one.
func (s *Scheduler) AddMonthClose(spec string, closer MonthCloser) error {
	_, err := s.cron.AddFunc(spec, func() { ClosePreviousMonth(closer, s.log) })
	return errors.Wrapf(err, "schedule month close %q", spec)
}

func (s *Scheduler) AddSessionPurge(spec string, purger SessionPurger) error {
	_, err := s.cron.AddFunc(spec, func() { PurgeSessions(purger, s.log) })
	return errors.Wrapf(err, "schedule session purge %q", spec)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stopped before running jobs finished")
	}
}

// ClosePreviousMonth is the body of the month close job.
func ClosePreviousMonth(closer MonthCloser, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	p := closer.CurrentPeriod().Previous()
	rec, err := closer.CloseMonth(ctx, p)
	if err != nil {
		log.Error().Err(err).Stringer("period", p).Msg("scheduled month close failed")
		return
	}
	log.Info().Stringer("period", p).Int("orders_moved", rec.OrdersMoved).Msg("scheduled month close done")
}

// PurgeSessions is the body of the session purge job.
func PurgeSessions(purger SessionPurger, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := purger.Purge(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session purge failed")
		return
	}
	if n > 0 {
		log.Debug().Int64("sessions", n).Msg("expired sessions purged")
	}
}
