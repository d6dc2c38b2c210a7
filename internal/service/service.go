// Package service implements the shop's operations on top of the store
// adapters. Operations that write to several tables run as workflows so a
// partial failure is either compensated or reported as a warning.
package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cubograf/m/domain"
	"cubograf/m/internal/metrics"
	"cubograf/m/internal/store"
	"cubograf/m/internal/workflow"
)

var ErrAlreadyPaid = errors.New("payable already paid")

type Service struct {
	store   *store.Store
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st *store.Store, log zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   st,
		log:     log.With().Str("component", "service").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// SetClock replaces the time source. Tests use it to pin "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Service) run(ctx context.Context, name string, steps ...workflow.Step) ([]string, error) {
	res, err := workflow.Run(ctx, s.log.With().Str("workflow", name).Logger(), steps...)
	s.metrics.WorkflowOutcome(res.Failed, res.Compensated)
	return res.Warnings, err
}
