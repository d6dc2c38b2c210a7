package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

const payableColumns = `id, descricao, valor, vencimento, categoria, forma_pagamento, status, observacao,
	compra_id, created_at, criado_por, atualizado_em, atualizado_por, data_pagamento, pago_por`

type payableRepo struct{ db *sqlx.DB }

func (r *payableRepo) List(ctx context.Context) ([]domain.Payable, error) {
	payables := []domain.Payable{}
	if err := r.db.SelectContext(ctx, &payables, `SELECT `+payableColumns+` FROM contas_pagar ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select payables")
	}
	return payables, nil
}

func (r *payableRepo) Get(ctx context.Context, id int64) (domain.Payable, error) {
	var p domain.Payable
	err := get(ctx, r.db, &p, "payable", `SELECT `+payableColumns+` FROM contas_pagar WHERE id = ?`, id)
	return p, err
}

func (r *payableRepo) Create(ctx context.Context, p *domain.Payable) error {
	id, err := insert(ctx, r.db, `INSERT INTO contas_pagar (
		descricao, valor, vencimento, categoria, forma_pagamento, status, observacao,
		compra_id, created_at, criado_por
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Description, p.Value, p.DueDate, p.Category, p.PaymentMethod, p.Status, p.Note,
		p.PurchaseID, p.CreatedAt, p.CreatedBy)
	if err != nil {
		return errors.Wrap(err, "insert payable")
	}
	p.ID = id
	return nil
}

func (r *payableRepo) Update(ctx context.Context, p domain.Payable) error {
	return exec(ctx, r.db, "update payable", `UPDATE contas_pagar SET
		descricao = ?, valor = ?, vencimento = ?, categoria = ?, forma_pagamento = ?, status = ?,
		observacao = ?, compra_id = ?, atualizado_em = ?, atualizado_por = ?, data_pagamento = ?, pago_por = ?
	WHERE id = ?`,
		p.Description, p.Value, p.DueDate, p.Category, p.PaymentMethod, p.Status,
		p.Note, p.PurchaseID, p.UpdatedAt, p.UpdatedBy, p.PaidAt, p.PaidBy, p.ID)
}

func (r *payableRepo) Delete(ctx context.Context, id int64) error {
	return exec(ctx, r.db, "delete payable", `DELETE FROM contas_pagar WHERE id = ?`, id)
}

func (r *payableRepo) MarkPaid(ctx context.Context, id int64, paidAt, paidBy string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE contas_pagar SET status = ?, data_pagamento = ?, pago_por = ? WHERE id = ? AND status <> ?`),
		domain.PayablePaid, paidAt, paidBy, id, domain.PayablePaid)
	if err != nil {
		return false, errors.Wrap(err, "mark payable paid")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "mark payable paid")
	}
	return n > 0, nil
}

func (r *payableRepo) MarkPending(ctx context.Context, id int64) error {
	return exec(ctx, r.db, "mark payable pending",
		`UPDATE contas_pagar SET status = ?, data_pagamento = '', pago_por = '' WHERE id = ?`,
		domain.PayablePending, id)
}
