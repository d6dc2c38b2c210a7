package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

const orderColumns = `id, cliente, vendedor, material, fornecedor, valor_total, custo,
	valor_entrada, valor_restante, valor_estimado_lucro, forma_pagamento, data, status, status_class`

type orderRepo struct{ db *sqlx.DB }

func (r *orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := r.db.SelectContext(ctx, &orders, `SELECT `+orderColumns+` FROM orders ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	return orders, nil
}

func (r *orderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := get(ctx, r.db, &o, "order", `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return o, err
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	id, err := insert(ctx, r.db, `INSERT INTO orders (
		cliente, vendedor, material, fornecedor, valor_total, custo,
		valor_entrada, valor_restante, valor_estimado_lucro, forma_pagamento,
		data, status, status_class
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Client, o.Seller, o.Materials, o.Supplier, o.Total, o.Cost,
		o.DownPayment, o.Remaining, o.EstimatedProfit, o.PaymentMethod,
		o.Date, o.Status, o.StatusClass)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	o.ID = id
	return nil
}

func (r *orderRepo) Update(ctx context.Context, o domain.Order) error {
	return exec(ctx, r.db, "update order", `UPDATE orders SET
		cliente = ?, vendedor = ?, material = ?, fornecedor = ?, valor_total = ?, custo = ?,
		valor_entrada = ?, valor_restante = ?, valor_estimado_lucro = ?, forma_pagamento = ?,
		data = ?, status = ?, status_class = ?
	WHERE id = ?`,
		o.Client, o.Seller, o.Materials, o.Supplier, o.Total, o.Cost,
		o.DownPayment, o.Remaining, o.EstimatedProfit, o.PaymentMethod,
		o.Date, o.Status, o.StatusClass, o.ID)
}

func (r *orderRepo) SetDate(ctx context.Context, id int64, date string) error {
	return exec(ctx, r.db, "update order date", `UPDATE orders SET data = ? WHERE id = ?`, date, id)
}
