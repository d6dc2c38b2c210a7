package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

type closingRepo struct{ db *sqlx.DB }

func (r *closingRepo) List(ctx context.Context) ([]domain.MonthClosing, error) {
	closings := []domain.MonthClosing{}
	err := r.db.SelectContext(ctx, &closings, `SELECT id, mes, ano, data_fechamento, total_receitas, total_custos, ordens_transferidas
		FROM fechamento ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "select closings")
	}
	return closings, nil
}

func (r *closingRepo) Create(ctx context.Context, c *domain.MonthClosing) error {
	id, err := insert(ctx, r.db, `INSERT INTO fechamento (mes, ano, data_fechamento, total_receitas, total_custos, ordens_transferidas)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Month, c.Year, c.ClosedAt, c.TotalRevenue, c.TotalCost, c.OrdersMoved)
	if err != nil {
		return errors.Wrap(err, "insert closing")
	}
	c.ID = id
	return nil
}
