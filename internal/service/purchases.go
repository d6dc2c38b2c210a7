package service

import (
	"context"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
	"cubograf/m/internal/workflow"
)

// PurchaseResult is a stored purchase with the records derived from it.
// Payable and Entry are nil when their step failed; Warnings says why.
type PurchaseResult struct {
	Purchase domain.Purchase
	Payable  *domain.Payable
	Entry    *domain.FinancialEntry
	Warnings []string
}

func (s *Service) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.store.Purchases.List(ctx)
}

// CreatePurchase stores a purchase and derives a pending payable and an
// expense entry from it. The purchase is kept even if the derived records
// cannot be written.
func (s *Service) CreatePurchase(ctx context.Context, p *validation.PurchasePayload, user string) (PurchaseResult, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return PurchaseResult{}, errs
	}
	purchase := domain.Purchase{
		Item:      p.Item,
		Supplier:  p.Supplier,
		Value:     p.Value.Value,
		Date:      p.Date,
		Note:      p.Note,
		CreatedAt: s.timestamp(),
	}
	var res PurchaseResult

	warnings, err := s.run(ctx, "create-purchase",
		workflow.Step{
			Name: "purchase",
			Do:   func(ctx context.Context) error { return s.store.Purchases.Create(ctx, &purchase) },
		},
		workflow.Step{
			Name:       "payable",
			BestEffort: true,
			Warning:    "Erro ao criar conta a pagar automaticamente",
			Do: func(ctx context.Context) error {
				payable := domain.Payable{
					Description:   domain.PurchaseDescription(purchase.ID, purchase.Item),
					Value:         purchase.Value,
					DueDate:       purchase.Date,
					Category:      "Compra",
					Status:        domain.PayablePending,
					PurchaseID:    &purchase.ID,
					CreatedAt:     s.timestamp(),
					CreatedBy:     user,
				}
				if err := s.store.Payables.Create(ctx, &payable); err != nil {
					return err
				}
				res.Payable = &payable
				return nil
			},
		},
		workflow.Step{
			Name:       "financial",
			BestEffort: true,
			Warning:    "Erro ao registrar a compra no financeiro",
			Do: func(ctx context.Context) error {
				entry := domain.FinancialEntry{
					Type:        domain.EntryExpense,
					Value:       purchase.Value,
					Description: domain.PurchaseDescription(purchase.ID, purchase.Item),
					Date:        purchase.Date,
					Status:      string(domain.PayablePending),
					PurchaseID:  &purchase.ID,
					CreatedAt:   s.timestamp(),
				}
				if res.Payable != nil {
					entry.PayableID = &res.Payable.ID
				}
				if err := s.store.Financial.Create(ctx, &entry); err != nil {
					return err
				}
				res.Entry = &entry
				return nil
			},
		},
	)
	if err != nil {
		return PurchaseResult{}, err
	}
	res.Purchase = purchase
	res.Warnings = warnings
	s.metrics.PurchaseCreated()
	return res, nil
}

// UpdatePurchase applies the fields present in the patch.
func (s *Service) UpdatePurchase(ctx context.Context, id int64, p *validation.PurchasePatch) (domain.Purchase, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return domain.Purchase{}, errs
	}
	purchase, err := s.store.Purchases.Get(ctx, id)
	if err != nil {
		return domain.Purchase{}, err
	}
	if p.Item != nil {
		purchase.Item = *p.Item
	}
	if p.Supplier != nil {
		purchase.Supplier = *p.Supplier
	}
	if p.Value != nil {
		purchase.Value = p.Value.Value
	}
	if p.Date != nil {
		purchase.Date = *p.Date
	}
	if p.Note != nil {
		purchase.Note = *p.Note
	}
	if p.Status != nil {
		purchase.Status = *p.Status
	}
	if err := s.store.Purchases.Update(ctx, purchase); err != nil {
		return domain.Purchase{}, err
	}
	return purchase, nil
}
