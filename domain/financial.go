package domain

// EntryType tells whether money came in or went out.
type EntryType string

const (
	EntryIn      EntryType = "entrada"
	EntryOut     EntryType = "saida"
	EntryExpense EntryType = "expense"
)

type FinancialEntry struct {
	ID          int64     `db:"id" json:"id"`
	Type        EntryType `db:"type" json:"type"`
	Value       float64   `db:"value" json:"value"`
	Description string    `db:"description" json:"description"`
	Date        string    `db:"date" json:"date"`
	Client      string    `db:"cliente" json:"cliente,omitempty"`
	Status      string    `db:"status" json:"status,omitempty"`
	Note        string    `db:"observacao" json:"observacao,omitempty"`
	OrderID     *int64    `db:"order_id" json:"order_id,omitempty"`
	PurchaseID  *int64    `db:"compra_id" json:"compra_id,omitempty"`
	PayableID   *int64    `db:"conta_id" json:"conta_id,omitempty"`
	CreatedAt   string    `db:"created_at" json:"timestamp"`
}
