package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

type ledgerRepo struct{ db *sqlx.DB }

func (r *ledgerRepo) List(ctx context.Context) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	err := r.db.SelectContext(ctx, &entries, `SELECT id, type, value, reference_id, date, category FROM balancete ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "select balancete")
	}
	return entries, nil
}

func (r *ledgerRepo) Create(ctx context.Context, e *domain.LedgerEntry) error {
	id, err := insert(ctx, r.db, `INSERT INTO balancete (type, value, reference_id, date, category) VALUES (?, ?, ?, ?, ?)`,
		e.Type, e.Value, e.ReferenceID, e.Date, e.Category)
	if err != nil {
		return errors.Wrap(err, "insert balancete entry")
	}
	e.ID = id
	return nil
}

// UpdateValue rewrites the value of the entries pointing at a record. Having
// no entry to update is not an error: older records may have none.
func (r *ledgerRepo) UpdateValue(ctx context.Context, t domain.EntryType, referenceID int64, value float64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE balancete SET value = ? WHERE type = ? AND reference_id = ?`),
		value, t, referenceID)
	return errors.Wrap(err, "update balancete entry")
}

func (r *ledgerRepo) DeleteByReference(ctx context.Context, t domain.EntryType, referenceID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM balancete WHERE type = ? AND reference_id = ?`), t, referenceID)
	return errors.Wrap(err, "delete balancete entries")
}
