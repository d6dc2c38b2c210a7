package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Connect opens the database for the given driver ("sqlite" or "postgres").
func Connect(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s database", driver)
	}
	if driver == "sqlite" {
		// SQLite serialises writers; a single connection also keeps
		// in-memory databases alive across queries.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "enable foreign keys")
		}
	}
	return db, nil
}
