package service

import (
	"context"

	"github.com/pkg/errors"

	"cubograf/m/domain"
	"cubograf/m/internal/finance"
	"cubograf/m/internal/workflow"
)

type snapshot struct {
	orders    []domain.Order
	purchases []domain.Purchase
	payables  []domain.Payable
}

func (s *Service) load(ctx context.Context, purchases, payables bool) (snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.orders, err = s.store.Orders.List(ctx); err != nil {
		return snap, err
	}
	if purchases {
		if snap.purchases, err = s.store.Purchases.List(ctx); err != nil {
			return snap, err
		}
	}
	if payables {
		if snap.payables, err = s.store.Payables.List(ctx); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// CurrentPeriod is the month the clock is in.
func (s *Service) CurrentPeriod() domain.Period {
	return domain.PeriodOf(s.now())
}

func (s *Service) FinancialSummary(ctx context.Context, p domain.Period) (finance.Summary, error) {
	snap, err := s.load(ctx, true, true)
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Summarize(p, snap.orders, snap.purchases, snap.payables), nil
}

func (s *Service) DashboardStats(ctx context.Context, p domain.Period) (finance.DashboardStats, error) {
	snap, err := s.load(ctx, false, true)
	if err != nil {
		return finance.DashboardStats{}, err
	}
	return finance.Dashboard(p, snap.orders, snap.payables), nil
}

func (s *Service) ExportBalancete(ctx context.Context, p domain.Period, user string) (finance.Balancete, error) {
	snap, err := s.load(ctx, true, true)
	if err != nil {
		return finance.Balancete{}, err
	}
	b := finance.BuildBalancete(p, snap.orders, snap.purchases, snap.payables)
	b.GeneratedAt = s.timestamp()
	b.GeneratedBy = user
	return b, nil
}

// TransferOrders re-dates the open orders of src to the first day of dst
// and returns them as stored.
func (s *Service) TransferOrders(ctx context.Context, src, dst domain.Period) ([]domain.Order, error) {
	orders, err := s.store.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]string, len(orders))
	for _, o := range orders {
		byID[o.ID] = o.Date
	}
	moved := finance.SelectTransfer(src, dst, orders)

	steps := make([]workflow.Step, 0, len(moved))
	for _, o := range moved {
		steps = append(steps, moveStep(s, o.ID, byID[o.ID], o.Date))
	}
	if _, err := s.run(ctx, "transfer-orders", steps...); err != nil {
		return nil, err
	}
	s.log.Info().Stringer("from", src).Stringer("to", dst).Int("orders", len(moved)).Msg("orders transferred")
	return moved, nil
}

func moveStep(s *Service, id int64, from, to string) workflow.Step {
	return workflow.Step{
		Name: "move-order",
		Do:   func(ctx context.Context) error { return s.store.Orders.SetDate(ctx, id, to) },
		Undo: func(ctx context.Context) error { return s.store.Orders.SetDate(ctx, id, from) },
	}
}

// CloseMonth snapshots the totals of p and carries every open order to the
// first day of the next month. If the snapshot cannot be stored the moved
// orders get their old dates back.
func (s *Service) CloseMonth(ctx context.Context, p domain.Period) (domain.MonthClosing, error) {
	if _, err := domain.NewPeriod(p.Year, p.Month); err != nil {
		return domain.MonthClosing{}, err
	}
	orders, err := s.store.Orders.List(ctx)
	if err != nil {
		return domain.MonthClosing{}, err
	}
	plan := finance.PlanClose(p, orders)
	record := plan.Record(s.timestamp())

	steps := make([]workflow.Step, 0, len(plan.Moves)+1)
	for _, m := range plan.Moves {
		steps = append(steps, moveStep(s, m.OrderID, m.Old, m.New))
	}
	steps = append(steps, workflow.Step{
		Name: "closing-record",
		Do:   func(ctx context.Context) error { return s.store.Closings.Create(ctx, &record) },
	})

	if _, err := s.run(ctx, "close-month", steps...); err != nil {
		s.metrics.MonthClosed(false)
		return domain.MonthClosing{}, errors.Wrapf(err, "close %s", p)
	}
	s.metrics.MonthClosed(true)
	s.log.Info().Stringer("period", p).Int("orders_moved", record.OrdersMoved).
		Float64("total_receitas", record.TotalRevenue).Msg("month closed")
	return record, nil
}

func (s *Service) ListClosings(ctx context.Context) ([]domain.MonthClosing, error) {
	return s.store.Closings.List(ctx)
}
