// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"cubograf/m/internal/database"
	"cubograf/m/internal/migrations"
)

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(db, "sqlite"))
	return db
}
