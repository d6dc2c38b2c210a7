package service

import (
	"context"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
	"cubograf/m/internal/workflow"
)

func (s *Service) ListPayables(ctx context.Context) ([]domain.Payable, error) {
	return s.store.Payables.List(ctx)
}

// CreatePayable stores a pending payable and its balancete outflow.
func (s *Service) CreatePayable(ctx context.Context, p *validation.PayablePayload, user string) (domain.Payable, []string, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Payable{}, nil, errs
	}
	payable := domain.Payable{
		Description:   p.Description,
		Value:         p.Value.Value,
		DueDate:       p.DueDate,
		Category:      p.Category,
		PaymentMethod: p.PaymentMethod,
		Status:        domain.PayablePending,
		Note:          p.Note,
		PurchaseID:    p.PurchaseID,
		CreatedAt:     s.timestamp(),
		CreatedBy:     user,
	}
	warnings, err := s.run(ctx, "create-payable",
		workflow.Step{
			Name: "payable",
			Do:   func(ctx context.Context) error { return s.store.Payables.Create(ctx, &payable) },
		},
		workflow.Step{
			Name:       "ledger",
			BestEffort: true,
			Warning:    "Erro ao registrar a conta no balancete",
			Do: func(ctx context.Context) error {
				e := domain.NewLedgerEntry(domain.EntryOut, payable.Value, payable.ID, payable.DueDate)
				return s.store.Ledger.Create(ctx, &e)
			},
		},
	)
	if err != nil {
		return domain.Payable{}, nil, err
	}
	return payable, warnings, nil
}

// UpdatePayable merges the patch over the stored payable. A new value is
// also written to the balancete entry of the payable. The status cannot be
// changed here; a payable becomes paid through PayPayable only.
func (s *Service) UpdatePayable(ctx context.Context, id int64, p *validation.PayablePatch, user string) (domain.Payable, []string, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Payable{}, nil, errs
	}
	old, err := s.store.Payables.Get(ctx, id)
	if err != nil {
		return domain.Payable{}, nil, err
	}
	updated := old
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.Value != nil {
		updated.Value = p.Value.Value
	}
	if p.DueDate != nil {
		updated.DueDate = *p.DueDate
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}
	if p.PaymentMethod != nil {
		updated.PaymentMethod = *p.PaymentMethod
	}
	if p.Status != nil && domain.PayableStatus(*p.Status) != old.Status {
		// Paid is terminal and only PayPayable records the outflow.
		if old.Status == domain.PayablePaid {
			return domain.Payable{}, nil, ErrAlreadyPaid
		}
		return domain.Payable{}, nil, validation.Errors{"Use o pagamento da conta para marcá-la como paga"}
	}
	if p.Note != nil {
		updated.Note = *p.Note
	}
	updated.UpdatedAt = s.timestamp()
	updated.UpdatedBy = user

	steps := []workflow.Step{{
		Name: "payable",
		Do:   func(ctx context.Context) error { return s.store.Payables.Update(ctx, updated) },
		Undo: func(ctx context.Context) error { return s.store.Payables.Update(ctx, old) },
	}}
	if updated.Value != old.Value {
		steps = append(steps, workflow.Step{
			Name:       "ledger",
			BestEffort: true,
			Warning:    "Erro ao atualizar o balancete",
			Do: func(ctx context.Context) error {
				return s.store.Ledger.UpdateValue(ctx, domain.EntryOut, id, updated.Value)
			},
		})
	}
	warnings, err := s.run(ctx, "update-payable", steps...)
	if err != nil {
		return domain.Payable{}, nil, err
	}
	return updated, warnings, nil
}

// DeletePayable removes a payable and its balancete entries.
func (s *Service) DeletePayable(ctx context.Context, id int64) ([]string, error) {
	if _, err := s.store.Payables.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.run(ctx, "delete-payable",
		workflow.Step{
			Name: "payable",
			Do:   func(ctx context.Context) error { return s.store.Payables.Delete(ctx, id) },
		},
		workflow.Step{
			Name:       "ledger",
			BestEffort: true,
			Warning:    "Erro ao remover a conta do balancete",
			Do: func(ctx context.Context) error {
				return s.store.Ledger.DeleteByReference(ctx, domain.EntryOut, id)
			},
		},
	)
}

// PayPayable moves a pending payable to paid and records the outflow. The
// status change only applies to a payable that is not paid yet, so two
// concurrent payments cannot both succeed. If the outflow cannot be
// recorded the payable goes back to pending.
func (s *Service) PayPayable(ctx context.Context, id int64, user string) (domain.Payable, error) {
	payable, err := s.store.Payables.Get(ctx, id)
	if err != nil {
		return domain.Payable{}, err
	}
	if payable.Status == domain.PayablePaid {
		return domain.Payable{}, ErrAlreadyPaid
	}
	paidAt := s.timestamp()

	_, err = s.run(ctx, "pay-payable",
		workflow.Step{
			Name: "mark-paid",
			Do: func(ctx context.Context) error {
				ok, err := s.store.Payables.MarkPaid(ctx, id, paidAt, user)
				if err != nil {
					return err
				}
				if !ok {
					return ErrAlreadyPaid
				}
				return nil
			},
			Undo: func(ctx context.Context) error { return s.store.Payables.MarkPending(ctx, id) },
		},
		workflow.Step{
			Name: "financial",
			Do: func(ctx context.Context) error {
				return s.store.Financial.Create(ctx, &domain.FinancialEntry{
					Type:        domain.EntryOut,
					Value:       payable.Value,
					Description: "Pagamento: " + payable.Description,
					Date:        s.today(),
					Status:      string(domain.PayablePaid),
					PurchaseID:  payable.PurchaseID,
					PayableID:   &payable.ID,
					CreatedAt:   paidAt,
				})
			},
		},
	)
	if err != nil {
		return domain.Payable{}, err
	}
	payable.Status = domain.PayablePaid
	payable.PaidAt = paidAt
	payable.PaidBy = user
	s.metrics.PayablePaid()
	return payable, nil
}
