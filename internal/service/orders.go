package service

import (
	"context"
	"fmt"
	"strings"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
	"cubograf/m/internal/workflow"
)

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.Orders.List(ctx)
}

func (s *Service) orderFromPayload(p *validation.OrderPayload) domain.Order {
	o := domain.Order{
		Client:        strings.TrimSpace(p.Client),
		Seller:        strings.TrimSpace(p.Seller),
		Materials:     p.Material.Names,
		Supplier:      strings.TrimSpace(p.Supplier),
		PaymentMethod: p.PaymentMethod,
		Date:          p.Date,
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "PIX"
	}
	if o.Date == "" {
		o.Date = s.today()
	}
	status := domain.OrderStatus(strings.TrimSpace(p.Status))
	if status == "" {
		status = domain.StatusAwaitingApproval
	}
	o.SetAmounts(p.Total.Value, p.Cost.Value)
	o.SetStatus(status)
	return o
}

// CreateOrder validates and stores an order, then records its value as an
// inflow in the financial entries and in the balancete. Only the order
// itself is required; the other two writes are reported as warnings.
func (s *Service) CreateOrder(ctx context.Context, p *validation.OrderPayload) (domain.Order, []string, error) {
	if errs := validation.ValidateOrder(p); len(errs) > 0 {
		return domain.Order{}, nil, errs
	}
	o := s.orderFromPayload(p)

	warnings, err := s.run(ctx, "create-order",
		workflow.Step{
			Name: "order",
			Do:   func(ctx context.Context) error { return s.store.Orders.Create(ctx, &o) },
		},
		workflow.Step{
			Name:       "financial",
			BestEffort: true,
			Warning:    "Erro ao registrar a ordem no financeiro",
			Do: func(ctx context.Context) error {
				return s.store.Financial.Create(ctx, &domain.FinancialEntry{
					Type:        domain.EntryIn,
					Value:       o.Total,
					Description: fmt.Sprintf("Ordem de Serviço #%d - %s", o.ID, o.Client),
					Date:        o.Date,
					Client:      o.Client,
					Status:      string(o.Status),
					OrderID:     &o.ID,
					CreatedAt:   s.timestamp(),
				})
			},
		},
		workflow.Step{
			Name:       "ledger",
			BestEffort: true,
			Warning:    "Erro ao registrar a ordem no balancete",
			Do: func(ctx context.Context) error {
				e := domain.NewLedgerEntry(domain.EntryIn, o.Total, o.ID, o.Date)
				return s.store.Ledger.Create(ctx, &e)
			},
		},
	)
	if err != nil {
		return domain.Order{}, nil, err
	}
	s.metrics.OrderCreated()
	s.log.Info().Int64("order_id", o.ID).Str("cliente", o.Client).Float64("valor_total", o.Total).Msg("order created")
	return o, warnings, nil
}

// UpdateOrder replaces an order with a validated payload. Status moves are
// not checked: any status the client sends is stored.
func (s *Service) UpdateOrder(ctx context.Context, id int64, p *validation.OrderPayload) (domain.Order, error) {
	if errs := validation.ValidateOrder(p); len(errs) > 0 {
		return domain.Order{}, errs
	}
	current, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o := s.orderFromPayload(p)
	o.ID = id
	if p.Date == "" {
		o.Date = current.Date
	}
	if err := s.store.Orders.Update(ctx, o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
