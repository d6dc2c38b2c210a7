package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cubograf/m/domain"
)

type userRepo struct{ db *sqlx.DB }

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT id, username, password_hash, role, created_at FROM users ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select users")
	}
	return users, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := get(ctx, r.db, &u, "user", `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`, username)
	return u, err
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	id, err := insert(ctx, r.db, `INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	u.ID = id
	return nil
}
