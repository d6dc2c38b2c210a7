package domain

const (
	CategoryService = "servico"
	CategoryCost    = "custo"
)

// LedgerEntry is one line of the balancete.
type LedgerEntry struct {
	ID          int64     `db:"id" json:"id"`
	Type        EntryType `db:"type" json:"type"`
	Value       float64   `db:"value" json:"value"`
	ReferenceID int64     `db:"reference_id" json:"reference_id"`
	Date        string    `db:"date" json:"data"`
	Category    string    `db:"category" json:"category"`
}

// NewLedgerEntry builds an entry whose category follows its direction.
func NewLedgerEntry(t EntryType, value float64, referenceID int64, date string) LedgerEntry {
	category := CategoryCost
	if t == EntryIn {
		category = CategoryService
	}
	return LedgerEntry{Type: t, Value: value, ReferenceID: referenceID, Date: date, Category: category}
}
