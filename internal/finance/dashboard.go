package finance

import "cubograf/m/domain"

// DashboardStats are the counters shown on the dashboard cards.
type DashboardStats struct {
	TotalOrders    int           `json:"total_orders"`
	InProduction   int           `json:"orders_em_producao"`
	Awaiting       int           `json:"orders_aguardando"`
	Finalized      int           `json:"orders_finalizados"`
	ReadyForPickup int           `json:"orders_retirada"`
	Revenue        float64       `json:"receita_total"`
	Costs          float64       `json:"custos_total"`
	Profit         float64       `json:"lucro_total"`
	Receivables    float64       `json:"valores_receber"`
	Payables       float64       `json:"valores_pagar"`
	Period         domain.Period `json:"periodo"`
}

func Dashboard(p domain.Period, orders []domain.Order, payables []domain.Payable) DashboardStats {
	st := DashboardStats{Period: p}
	for _, o := range orders {
		if !p.Contains(o.Date) {
			continue
		}
		st.TotalOrders++
		switch o.Status {
		case domain.StatusInProduction:
			st.InProduction++
		case domain.StatusAwaitingApproval, domain.StatusAwaitingPayment:
			st.Awaiting++
		case domain.StatusFinalized:
			st.Finalized++
		case domain.StatusReadyForPickup:
			st.ReadyForPickup++
		}
	}
	st.Revenue = Revenue(p, orders)
	st.Costs = Cost(p, orders)
	st.Profit = st.Revenue - st.Costs
	st.Receivables = Receivables(p, orders)
	st.Payables = PendingPayables(p, payables)
	return st
}
