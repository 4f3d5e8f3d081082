// Package migrations holds the embedded SQL schema for the HoopLog database.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var FS embed.FS

// New builds a migrate instance over an already open connection.
// The returned source driver must be closed by the caller. Closing the
// migrate instance itself would also close db.
func New(db *sql.DB) (*migrate.Migrate, source.Driver, error) {
	sourceDriver, err := iofs.New(FS, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		_ = sourceDriver.Close()
		return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		_ = sourceDriver.Close()
		return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, sourceDriver, nil
}

// Apply runs all pending up migrations against db. The connection is left open.
func Apply(db *sql.DB) error {
	m, sourceDriver, err := New(db)
	if err != nil {
		return err
	}
	defer func() { _ = sourceDriver.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
