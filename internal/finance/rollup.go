// Package finance derives period totals from the shop's records. Every
// function here is a pure computation over slices already loaded by the
// caller; nothing touches storage.
package finance

import (
	"cubograf/m/domain"
)

// Summary is the financial picture of one period.
type Summary struct {
	Revenue          float64       `json:"receita_total"`
	Costs            float64       `json:"custos_total"`
	Outflows         float64       `json:"saidas_total"`
	PurchaseOutflows float64       `json:"saidas_compras"`
	PayableOutflows  float64       `json:"saidas_contas"`
	NetProfit        float64       `json:"lucro_liquido"`
	Receivables      float64       `json:"valores_receber"`
	Period           domain.Period `json:"periodo"`
}

// Revenue sums the total of finalized orders dated inside p.
func Revenue(p domain.Period, orders []domain.Order) float64 {
	var sum float64
	for _, o := range orders {
		if o.Status == domain.StatusFinalized && p.Contains(o.Date) {
			sum += o.Total
		}
	}
	return sum
}

// Cost sums the cost of the same orders Revenue counts.
func Cost(p domain.Period, orders []domain.Order) float64 {
	var sum float64
	for _, o := range orders {
		if o.Status == domain.StatusFinalized && p.Contains(o.Date) {
			sum += o.Cost
		}
	}
	return sum
}

// Receivables sums what is still owed on open orders dated inside p.
func Receivables(p domain.Period, orders []domain.Order) float64 {
	var sum float64
	for _, o := range orders {
		if !o.Status.Closed() && p.Contains(o.Date) {
			sum += o.Remaining
		}
	}
	return sum
}

// PurchaseOutflows sums purchases dated inside p that were not cancelled.
func PurchaseOutflows(p domain.Period, purchases []domain.Purchase) float64 {
	var sum float64
	for _, c := range purchases {
		if c.Status != domain.PurchaseCancelled && p.Contains(c.Date) {
			sum += c.Value
		}
	}
	return sum
}

// PendingPayables sums pending payables falling due inside p.
func PendingPayables(p domain.Period, payables []domain.Payable) float64 {
	var sum float64
	for _, c := range payables {
		if c.Status == domain.PayablePending && p.Contains(c.DueDate) {
			sum += c.Value
		}
	}
	return sum
}

// Summarize computes the full summary for p.
func Summarize(p domain.Period, orders []domain.Order, purchases []domain.Purchase, payables []domain.Payable) Summary {
	s := Summary{
		Revenue:          Revenue(p, orders),
		Costs:            Cost(p, orders),
		Receivables:      Receivables(p, orders),
		PurchaseOutflows: PurchaseOutflows(p, purchases),
		PayableOutflows:  PendingPayables(p, payables),
		Period:           p,
	}
	s.Outflows = s.PurchaseOutflows + s.PayableOutflows
	s.NetProfit = s.Revenue - (s.Costs + s.Outflows)
	return s
}
