package domain

// MonthClosing snapshots a period at the moment it was closed.
type MonthClosing struct {
	ID           int64   `db:"id" json:"id"`
	Month        int     `db:"mes" json:"mes"`
	Year         int     `db:"ano" json:"ano"`
	ClosedAt     string  `db:"data_fechamento" json:"data_fechamento"`
	TotalRevenue float64 `db:"total_receitas" json:"total_receitas"`
	TotalCost    float64 `db:"total_custos" json:"total_custos"`
	OrdersMoved  int     `db:"ordens_transferidas" json:"ordens_transferidas"`
}
