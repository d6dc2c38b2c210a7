// Package seed fills the database outside of the HTTP API: the first admin
// account and records imported from the file based version of the system.
package seed

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cubograf/m/domain"
	"cubograf/m/internal/auth"
	"cubograf/m/internal/store"
)

// EnsureAdmin creates the admin account when it does not exist yet. Nothing
// happens without a password: there is no default one.
func EnsureAdmin(ctx context.Context, users store.UserRepository, mgr *auth.Manager, username, password string, log zerolog.Logger) error {
	if password == "" {
		log.Debug().Msg("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	_, err := users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	u, err := mgr.CreateUser(ctx, username, password, domain.RoleAdmin)
	if err != nil {
		return errors.Wrap(err, "create admin")
	}
	log.Info().Str("username", u.Username).Msg("admin user created")
	return nil
}
