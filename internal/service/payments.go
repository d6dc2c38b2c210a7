package service

import (
	"context"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
)

// ListPayments returns the financial entries dated inside p.
func (s *Service) ListPayments(ctx context.Context, p domain.Period) ([]domain.FinancialEntry, error) {
	return s.store.Financial.ListInPeriod(ctx, p)
}

// CreatePayment records a client payment as an inflow.
func (s *Service) CreatePayment(ctx context.Context, p *validation.PaymentPayload) (domain.FinancialEntry, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.FinancialEntry{}, errs
	}
	e := p.Entry()
	e.CreatedAt = s.timestamp()
	if err := s.store.Financial.Create(ctx, &e); err != nil {
		return domain.FinancialEntry{}, err
	}
	return e, nil
}

// UpdatePayment rewrites a payment, keeping its links and creation time.
func (s *Service) UpdatePayment(ctx context.Context, id int64, p *validation.PaymentPayload) (domain.FinancialEntry, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.FinancialEntry{}, errs
	}
	current, err := s.store.Financial.Get(ctx, id)
	if err != nil {
		return domain.FinancialEntry{}, err
	}
	e := p.Entry()
	e.ID = id
	e.Type = current.Type
	e.OrderID, e.PurchaseID, e.PayableID = current.OrderID, current.PurchaseID, current.PayableID
	e.CreatedAt = current.CreatedAt
	if err := s.store.Financial.Update(ctx, e); err != nil {
		return domain.FinancialEntry{}, err
	}
	return e, nil
}
