package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

const financialColumns = `id, type, value, description, date, cliente, status, observacao,
	order_id, compra_id, conta_id, created_at`

type financialRepo struct{ db *sqlx.DB }

func (r *financialRepo) List(ctx context.Context) ([]domain.FinancialEntry, error) {
	entries := []domain.FinancialEntry{}
	if err := r.db.SelectContext(ctx, &entries, `SELECT `+financialColumns+` FROM financial ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select financial entries")
	}
	return entries, nil
}

func (r *financialRepo) ListInPeriod(ctx context.Context, p domain.Period) ([]domain.FinancialEntry, error) {
	entries := []domain.FinancialEntry{}
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(`SELECT `+financialColumns+` FROM financial WHERE date LIKE ? ORDER BY date, id`),
		p.Prefix()+"%")
	if err != nil {
		return nil, errors.Wrap(err, "select financial entries")
	}
	return entries, nil
}

func (r *financialRepo) Get(ctx context.Context, id int64) (domain.FinancialEntry, error) {
	var e domain.FinancialEntry
	err := get(ctx, r.db, &e, "financial entry", `SELECT `+financialColumns+` FROM financial WHERE id = ?`, id)
	return e, err
}

func (r *financialRepo) Create(ctx context.Context, e *domain.FinancialEntry) error {
	id, err := insert(ctx, r.db, `INSERT INTO financial (
		type, value, description, date, cliente, status, observacao, order_id, compra_id, conta_id, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Type, e.Value, e.Description, e.Date, e.Client, e.Status, e.Note,
		e.OrderID, e.PurchaseID, e.PayableID, e.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert financial entry")
	}
	e.ID = id
	return nil
}

func (r *financialRepo) Update(ctx context.Context, e domain.FinancialEntry) error {
	return exec(ctx, r.db, "update financial entry", `UPDATE financial SET
		type = ?, value = ?, description = ?, date = ?, cliente = ?, status = ?, observacao = ?
	WHERE id = ?`,
		e.Type, e.Value, e.Description, e.Date, e.Client, e.Status, e.Note, e.ID)
}
