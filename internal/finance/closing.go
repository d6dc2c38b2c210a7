package finance

import "cubograf/m/domain"

// Move relocates one order to a new date. Old keeps the previous date so the
// move can be undone.
type Move struct {
	OrderID int64
	Old     string
	New     string
}

// ClosePlan is what closing a month will do, computed before anything is written.
type ClosePlan struct {
	Period  domain.Period
	Revenue float64
	Cost    float64
	Moves   []Move
}

// PlanClose computes the totals of p and the moves that carry every open
// order to the first day of the following month. Totals are taken before any
// order is moved.
func PlanClose(p domain.Period, orders []domain.Order) ClosePlan {
	plan := ClosePlan{
		Period:  p,
		Revenue: Revenue(p, orders),
		Cost:    Cost(p, orders),
	}
	target := p.Next().FirstDay()
	for _, o := range orders {
		if o.Status.Closed() {
			continue
		}
		plan.Moves = append(plan.Moves, Move{OrderID: o.ID, Old: o.Date, New: target})
	}
	return plan
}

// Record builds the closing snapshot for the plan.
func (c ClosePlan) Record(closedAt string) domain.MonthClosing {
	return domain.MonthClosing{
		Month:        c.Period.Month,
		Year:         c.Period.Year,
		ClosedAt:     closedAt,
		TotalRevenue: c.Revenue,
		TotalCost:    c.Cost,
		OrdersMoved:  len(c.Moves),
	}
}

// SelectTransfer returns the open orders of src re-dated to the first day of
// dst. The input slice is not modified.
func SelectTransfer(src, dst domain.Period, orders []domain.Order) []domain.Order {
	moved := []domain.Order{}
	for _, o := range orders {
		if o.Status.Closed() || !src.Contains(o.Date) {
			continue
		}
		o.Date = dst.FirstDay()
		moved = append(moved, o)
	}
	return moved
}
