package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

type sessionRepo struct{ db *sqlx.DB }

func (r *sessionRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO sessions (token, user_id, username, role, created_at) VALUES (?, ?, ?, ?, ?)`),
		s.Token, s.UserID, s.Username, s.Role, s.CreatedAt)
	return errors.Wrap(err, "insert session")
}

func (r *sessionRepo) Get(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session
	err := get(ctx, r.db, &s, "session", `SELECT token, user_id, username, role, created_at FROM sessions WHERE token = ?`, token)
	return s, err
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE token = ?`), token)
	return errors.Wrap(err, "delete session")
}

// DeleteBefore purges sessions created before the given RFC 3339 timestamp.
func (r *sessionRepo) DeleteBefore(ctx context.Context, createdAt string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE created_at < ?`), createdAt)
	if err != nil {
		return 0, errors.Wrap(err, "purge sessions")
	}
	return res.RowsAffected()
}
