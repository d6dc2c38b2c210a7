// Package store holds the persistence adapters, one per entity. Each adapter
// translates between domain structs and rows; none of them spans another
// adapter's table or opens a transaction across adapters.
package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	Create(ctx context.Context, o *domain.Order) error
	Update(ctx context.Context, o domain.Order) error
	SetDate(ctx context.Context, id int64, date string) error
}

type PurchaseRepository interface {
	List(ctx context.Context) ([]domain.Purchase, error)
	Get(ctx context.Context, id int64) (domain.Purchase, error)
	Create(ctx context.Context, p *domain.Purchase) error
	Update(ctx context.Context, p domain.Purchase) error
}

type PayableRepository interface {
	List(ctx context.Context) ([]domain.Payable, error)
	Get(ctx context.Context, id int64) (domain.Payable, error)
	Create(ctx context.Context, p *domain.Payable) error
	Update(ctx context.Context, p domain.Payable) error
	Delete(ctx context.Context, id int64) error
	// MarkPaid moves a pending payable to paid and reports whether it did.
	MarkPaid(ctx context.Context, id int64, paidAt, paidBy string) (bool, error)
	MarkPending(ctx context.Context, id int64) error
}

type FinancialRepository interface {
	List(ctx context.Context) ([]domain.FinancialEntry, error)
	ListInPeriod(ctx context.Context, p domain.Period) ([]domain.FinancialEntry, error)
	Get(ctx context.Context, id int64) (domain.FinancialEntry, error)
	Create(ctx context.Context, e *domain.FinancialEntry) error
	Update(ctx context.Context, e domain.FinancialEntry) error
}

type LedgerRepository interface {
	List(ctx context.Context) ([]domain.LedgerEntry, error)
	Create(ctx context.Context, e *domain.LedgerEntry) error
	UpdateValue(ctx context.Context, t domain.EntryType, referenceID int64, value float64) error
	DeleteByReference(ctx context.Context, t domain.EntryType, referenceID int64) error
}

type ClosingRepository interface {
	List(ctx context.Context) ([]domain.MonthClosing, error)
	Create(ctx context.Context, c *domain.MonthClosing) error
}

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteBefore(ctx context.Context, createdAt string) (int64, error)
}

// Store bundles the adapters handed to the service layer.
type Store struct {
	Orders    OrderRepository
	Purchases PurchaseRepository
	Payables  PayableRepository
	Financial FinancialRepository
	Ledger    LedgerRepository
	Closings  ClosingRepository
	Users     UserRepository
	Sessions  SessionRepository
}

// New builds SQL backed adapters sharing one connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{
		Orders:    &orderRepo{db: db},
		Purchases: &purchaseRepo{db: db},
		Payables:  &payableRepo{db: db},
		Financial: &financialRepo{db: db},
		Ledger:    &ledgerRepo{db: db},
		Closings:  &closingRepo{db: db},
		Users:     &userRepo{db: db},
		Sessions:  &sessionRepo{db: db},
	}
}

// insert runs an INSERT ... RETURNING id statement written with ? placeholders.
func insert(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// get loads a single row, mapping sql.ErrNoRows to ErrNotFound.
func get(ctx context.Context, db *sqlx.DB, dest any, what, query string, args ...any) error {
	err := db.GetContext(ctx, dest, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "select %s", what)
}

// exec runs a statement that must touch at least one row.
func exec(ctx context.Context, db *sqlx.DB, what, query string, args ...any) error {
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, what)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
