package domain

import "fmt"

type PayableStatus string

const (
	PayablePending PayableStatus = "Pendente"
	PayablePaid    PayableStatus = "Pago"
)

type Payable struct {
	ID            int64         `db:"id" json:"id"`
	Description   string        `db:"descricao" json:"descricao"`
	Value         float64       `db:"valor" json:"valor"`
	DueDate       string        `db:"vencimento" json:"vencimento"`
	Category      string        `db:"categoria" json:"categoria"`
	PaymentMethod string        `db:"forma_pagamento" json:"forma_pagamento"`
	Status        PayableStatus `db:"status" json:"status"`
	Note          string        `db:"observacao" json:"observacao"`
	PurchaseID    *int64        `db:"compra_id" json:"compra_id"`
	CreatedAt     string        `db:"created_at" json:"data_criacao"`
	CreatedBy     string        `db:"criado_por" json:"criado_por"`
	UpdatedAt     string        `db:"atualizado_em" json:"atualizado_em,omitempty"`
	UpdatedBy     string        `db:"atualizado_por" json:"atualizado_por,omitempty"`
	PaidAt        string        `db:"data_pagamento" json:"data_pagamento,omitempty"`
	PaidBy        string        `db:"pago_por" json:"pago_por,omitempty"`
}

// PurchaseDescription is the description given to payables generated from a purchase.
func PurchaseDescription(purchaseID int64, item string) string {
	return fmt.Sprintf("Compra #%d - %s", purchaseID, item)
}
