package finance_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubograf/m/domain"
	"cubograf/m/internal/finance"
)

func order(id int64, date string, status domain.OrderStatus, total, cost float64) domain.Order {
	o := domain.Order{ID: id, Client: "Cliente", Date: date}
	o.SetAmounts(total, cost)
	o.SetStatus(status)
	return o
}

var march = domain.Period{Year: 2024, Month: 3}

func TestSummarizeSingleFinalizedOrder(t *testing.T) {
	orders := []domain.Order{order(1, "2024-03-10", domain.StatusFinalized, 1000, 400)}

	s := finance.Summarize(march, orders, nil, nil)
	assert.Equal(t, 1000.0, s.Revenue)
	assert.Equal(t, 400.0, s.Costs)
	assert.Equal(t, 600.0, s.NetProfit)
	assert.Zero(t, s.Outflows)
	assert.Zero(t, s.Receivables)
	assert.Equal(t, march, s.Period)
}

func TestSummarizeFilters(t *testing.T) {
	orders := []domain.Order{
		order(1, "2024-03-10", domain.StatusFinalized, 1000, 400),
		order(2, "2024-03-11", domain.StatusInProduction, 300, 100),
		order(3, "2024-03-12", domain.StatusCancelled, 900, 0),
		order(4, "2024-04-01", domain.StatusFinalized, 5000, 0),
		order(5, "2023-03-10", domain.StatusFinalized, 7000, 0),
	}
	purchases := []domain.Purchase{
		{Value: 50, Date: "2024-03-02"},
		{Value: 70, Date: "2024-03-03", Status: domain.PurchaseCancelled},
		{Value: 90, Date: "2024-02-28"},
	}
	payables := []domain.Payable{
		{Value: 20, DueDate: "2024-03-20", Status: domain.PayablePending},
		{Value: 30, DueDate: "2024-03-21", Status: domain.PayablePaid},
	}

	s := finance.Summarize(march, orders, purchases, payables)
	assert.Equal(t, 1000.0, s.Revenue)
	assert.Equal(t, 400.0, s.Costs)
	assert.Equal(t, 150.0, s.Receivables)
	assert.Equal(t, 50.0, s.PurchaseOutflows)
	assert.Equal(t, 20.0, s.PayableOutflows)
	assert.Equal(t, 70.0, s.Outflows)
	assert.Equal(t, 530.0, s.NetProfit)
}

func TestSummarizeEmpty(t *testing.T) {
	s := finance.Summarize(march, nil, nil, nil)
	assert.Zero(t, s.Revenue)
	assert.Zero(t, s.NetProfit)
}

func TestDashboard(t *testing.T) {
	orders := []domain.Order{
		order(1, "2024-03-01", domain.StatusAwaitingApproval, 100, 10),
		order(2, "2024-03-02", domain.StatusAwaitingPayment, 100, 10),
		order(3, "2024-03-03", domain.StatusInProduction, 100, 10),
		order(4, "2024-03-04", domain.StatusReadyForPickup, 100, 10),
		order(5, "2024-03-05", domain.StatusFinalized, 100, 10),
		order(6, "2024-02-05", domain.StatusFinalized, 100, 10),
	}
	payables := []domain.Payable{{Value: 40, DueDate: "2024-03-09", Status: domain.PayablePending}}

	st := finance.Dashboard(march, orders, payables)
	assert.Equal(t, 5, st.TotalOrders)
	assert.Equal(t, 2, st.Awaiting)
	assert.Equal(t, 1, st.InProduction)
	assert.Equal(t, 1, st.ReadyForPickup)
	assert.Equal(t, 1, st.Finalized)
	assert.Equal(t, 100.0, st.Revenue)
	assert.Equal(t, 90.0, st.Profit)
	assert.Equal(t, 200.0, st.Receivables)
	assert.Equal(t, 40.0, st.Payables)
}

func TestPlanCloseRollsDecemberIntoJanuary(t *testing.T) {
	dec := domain.Period{Year: 2024, Month: 12}
	orders := []domain.Order{
		order(1, "2024-12-05", domain.StatusFinalized, 800, 300),
		order(2, "2024-12-06", domain.StatusInProduction, 100, 0),
		order(3, "2024-11-20", domain.StatusAwaitingPayment, 100, 0),
		order(4, "2024-12-07", domain.StatusCancelled, 100, 0),
	}

	plan := finance.PlanClose(dec, orders)
	assert.Equal(t, 800.0, plan.Revenue)
	assert.Equal(t, 300.0, plan.Cost)
	assert.Equal(t, []finance.Move{
		{OrderID: 2, Old: "2024-12-06", New: "2025-01-01"},
		{OrderID: 3, Old: "2024-11-20", New: "2025-01-01"},
	}, plan.Moves)

	rec := plan.Record("2024-12-31T23:00:00Z")
	assert.Equal(t, 12, rec.Month)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, 2, rec.OrdersMoved)
}

func TestPlanCloseMidYear(t *testing.T) {
	plan := finance.PlanClose(march, []domain.Order{order(1, "2024-03-05", domain.StatusInProduction, 1, 0)})
	require.Len(t, plan.Moves, 1)
	assert.Equal(t, "2024-04-01", plan.Moves[0].New)
}

func TestSelectTransfer(t *testing.T) {
	orders := []domain.Order{
		order(1, "2024-03-05", domain.StatusInProduction, 1, 0),
		order(2, "2024-03-06", domain.StatusFinalized, 1, 0),
		order(3, "2024-04-06", domain.StatusInProduction, 1, 0),
	}

	moved := finance.SelectTransfer(march, domain.Period{Year: 2024, Month: 5}, orders)
	require.Len(t, moved, 1)
	assert.Equal(t, int64(1), moved[0].ID)
	assert.Equal(t, "2024-05-01", moved[0].Date)
	assert.Equal(t, "2024-03-05", orders[0].Date)

	assert.Empty(t, finance.SelectTransfer(domain.Period{Year: 2020, Month: 1}, march, orders))
}

func TestBalancete(t *testing.T) {
	orders := []domain.Order{
		order(2, "2024-03-20", domain.StatusFinalized, 500, 0),
		order(1, "2024-03-10", domain.StatusReadyForPickup, 300, 0),
		order(3, "2024-03-11", domain.StatusInProduction, 999, 0),
	}
	purchases := []domain.Purchase{{Item: "Tinta", Value: 100, Date: "2024-03-15"}}
	payables := []domain.Payable{
		{Description: "Luz", Value: 50, Status: domain.PayablePaid, PaidAt: "2024-03-01T10:00:00Z"},
		{Description: "Água", Value: 60, Status: domain.PayablePending},
	}

	b := finance.BuildBalancete(march, orders, purchases, payables)
	require.Len(t, b.In, 2)
	assert.Equal(t, "Ordem #1 - Cliente", b.In[0].Description)
	require.Len(t, b.Out, 2)
	assert.Equal(t, finance.Line{Date: "2024-03-01", Description: "Conta: Luz", Value: 50}, b.Out[0])
	assert.Equal(t, finance.Totals{In: 800, Out: 150, Balance: 650}, b.Totals)

	var buf bytes.Buffer
	require.NoError(t, b.WriteCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"tipo", "data", "descricao", "valor"}, rows[0])
	assert.Equal(t, []string{"entrada", "2024-03-10", "Ordem #1 - Cliente", "300.00"}, rows[1])
	assert.Equal(t, []string{"saldo", "", "", "650.00"}, rows[len(rows)-1])
}

func TestBalanceteCSVQuotesFormulas(t *testing.T) {
	b := finance.Balancete{
		In:  []finance.Line{{Date: "2024-03-02", Description: "=HYPERLINK(\"http://x\")", Value: 10}},
		Out: []finance.Line{{Date: "2024-03-03", Description: "@SUM(A1)", Value: 5}, {Date: "2024-03-04", Description: "Compra: -lona", Value: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, b.WriteCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "'=HYPERLINK(\"http://x\")", rows[1][2])
	assert.Equal(t, "'@SUM(A1)", rows[2][2])
	assert.Equal(t, "Compra: -lona", rows[3][2])
}
