package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

const purchaseColumns = `id, item, fornecedor, valor, data, observacao, status, created_at`

type purchaseRepo struct{ db *sqlx.DB }

func (r *purchaseRepo) List(ctx context.Context) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	if err := r.db.SelectContext(ctx, &purchases, `SELECT `+purchaseColumns+` FROM compras ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select purchases")
	}
	return purchases, nil
}

func (r *purchaseRepo) Get(ctx context.Context, id int64) (domain.Purchase, error) {
	var p domain.Purchase
	err := get(ctx, r.db, &p, "purchase", `SELECT `+purchaseColumns+` FROM compras WHERE id = ?`, id)
	return p, err
}

func (r *purchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	id, err := insert(ctx, r.db, `INSERT INTO compras (item, fornecedor, valor, data, observacao, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Item, p.Supplier, p.Value, p.Date, p.Note, p.Status, p.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert purchase")
	}
	p.ID = id
	return nil
}

func (r *purchaseRepo) Update(ctx context.Context, p domain.Purchase) error {
	return exec(ctx, r.db, "update purchase",
		`UPDATE compras SET item = ?, fornecedor = ?, valor = ?, data = ?, observacao = ?, status = ? WHERE id = ?`,
		p.Item, p.Supplier, p.Value, p.Date, p.Note, p.Status, p.ID)
}
