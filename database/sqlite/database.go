package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/acsign/database/internal"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite database operations for the nonce table.
type DB struct {
	db    *sql.DB
	table string
}

// Connect opens a SQLite database. The table name is validated here but the
// table is only created by Migrate.
func Connect(ctx context.Context, dsn, table string) (*DB, error) {
	if err := internal.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	return &DB{
		db:    db,
		table: table,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *DB) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.table); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *DB) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.table)
}

// GetStore returns the nonce store backed by this database.
func (d *DB) GetStore() *Store {
	return &Store{db: d.db, table: d.table}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
