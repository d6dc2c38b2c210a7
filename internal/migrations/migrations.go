package migrations

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Run brings the schema required by the back office up to date. Each driver
// has its own migration set because identity columns differ.
func Run(db *sqlx.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case "sqlite":
		target, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	case "postgres":
		target, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		return errors.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return errors.Wrap(err, "migrations: open target")
	}

	source, err := iofs.New(files, driver)
	if err != nil {
		return errors.Wrap(err, "migrations: open source")
	}

	// The migrate instance is not closed: closing it would close db too.
	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return errors.Wrap(err, "migrations: init")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migration failed")
	}
	return nil
}

// Version reports the schema version currently applied.
func Version(db *sqlx.DB) (int64, error) {
	var version int64
	err := db.Get(&version, `SELECT version FROM schema_migrations LIMIT 1`)
	if err != nil {
		return 0, errors.Wrap(err, "read schema version")
	}
	return version, nil
}
