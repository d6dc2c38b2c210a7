package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus is the production stage of a service order. The constants below
// are the stages the shop works with; transitions between them are driven by
// the client and are not checked, so any other value is stored untouched.
type OrderStatus string

const (
	StatusAwaitingApproval OrderStatus = "Aguardando Aprovação"
	StatusAwaitingPayment  OrderStatus = "Aguardando Pagamento"
	StatusInProduction     OrderStatus = "Em Produção"
	StatusReadyForPickup   OrderStatus = "Disponível para Retirada"
	StatusFinalized        OrderStatus = "Finalizada"
	StatusCancelled        OrderStatus = "Cancelada"
)

// DownPaymentRate is the share of the total charged up front.
const DownPaymentRate = 0.5

// Closed reports whether the order no longer counts as open work.
func (s OrderStatus) Closed() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// Class returns the tag the dashboard uses to colour the status badge.
func (s OrderStatus) Class() string {
	switch s {
	case StatusAwaitingApproval:
		return "status-aprovacao"
	case StatusAwaitingPayment:
		return "status-pagamento"
	case StatusInProduction:
		return "status-producao"
	case StatusReadyForPickup:
		return "status-retirada"
	case StatusFinalized:
		return "status-finalizada"
	case StatusCancelled:
		return "status-cancelada"
	}
	slug := strings.ToLower(strings.Join(strings.Fields(string(s)), "-"))
	if slug == "" {
		slug = "aguardando-aprovacao"
	}
	return "status-" + slug
}

// Materials is the list of material names used by an order. It is persisted
// as a JSON array in a text column.
type Materials []string

// SplitMaterials turns "lona, adesivo" into a trimmed list, dropping blanks.
func SplitMaterials(raw string) Materials {
	out := Materials{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (m Materials) Value() (driver.Value, error) {
	if m == nil {
		m = Materials{}
	}
	b, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Materials) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*m = Materials{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("materials: unsupported column type %T", src)
	}
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		// rows written before the JSON encoding hold a comma separated list
		*m = SplitMaterials(raw)
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	*m = names
	return nil
}

type Order struct {
	ID              int64       `db:"id" json:"id"`
	Client          string      `db:"cliente" json:"cliente"`
	Seller          string      `db:"vendedor" json:"vendedor"`
	Materials       Materials   `db:"material" json:"material"`
	Supplier        string      `db:"fornecedor" json:"fornecedor"`
	Total           float64     `db:"valor_total" json:"valor_total"`
	Cost            float64     `db:"custo" json:"custo"`
	DownPayment     float64     `db:"valor_entrada" json:"valor_entrada"`
	Remaining       float64     `db:"valor_restante" json:"valor_restante"`
	EstimatedProfit float64     `db:"valor_estimado_lucro" json:"valor_estimado_lucro"`
	PaymentMethod   string      `db:"forma_pagamento" json:"forma_pagamento"`
	Date            string      `db:"data" json:"data"`
	Status          OrderStatus `db:"status" json:"status"`
	StatusClass     string      `db:"status_class" json:"status_class"`
}

// SetAmounts stores total and cost and recomputes the down payment, the
// remaining balance and the estimated profit from them.
func (o *Order) SetAmounts(total, cost float64) {
	o.Total = total
	o.Cost = cost
	o.DownPayment = total * DownPaymentRate
	o.Remaining = total - o.DownPayment
	o.EstimatedProfit = total - cost
}

// SetStatus stores the status together with its display class.
func (o *Order) SetStatus(s OrderStatus) {
	o.Status = s
	o.StatusClass = s.Class()
}
