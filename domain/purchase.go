package domain

// PurchaseCancelled marks a purchase that no longer counts as an outflow.
const PurchaseCancelled = "Cancelada"

type Purchase struct {
	ID        int64   `db:"id" json:"id"`
	Item      string  `db:"item" json:"item"`
	Supplier  string  `db:"fornecedor" json:"fornecedor"`
	Value     float64 `db:"valor" json:"valor"`
	Date      string  `db:"data" json:"data"`
	Note      string  `db:"observacao" json:"observacao"`
	Status    string  `db:"status" json:"status,omitempty"`
	CreatedAt string  `db:"created_at" json:"timestamp"`
}
