package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sagarc03/acsign/database/memory"
	"github.com/sagarc03/acsign/database/postgres"
	"github.com/sagarc03/acsign/database/sqlite"
)

// Supported backend types.
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// DefaultTable is the nonce table name used when none is configured.
const DefaultTable = "acsign_nonces"

// Config holds the configuration for connecting to a nonce backend.
type Config struct {
	// Type specifies the backend: "memory", "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=memory sqlite postgres"`
	// DSN is the data source name (connection string). Unused for memory.
	DSN string `mapstructure:"dsn" validate:"required_unless=Type memory"`
	// Table is the name of the nonce table
	Table string `mapstructure:"table"`
}

// NonceStore remembers signature nonces and forgets old ones.
type NonceStore interface {
	Remember(ctx context.Context, nonce string, seenAt time.Time) (bool, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Database is a connected nonce backend.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	GetStore() NonceStore
	Close() error
}

type backend interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	Close() error
}

type database struct {
	backend
	store NonceStore
}

func (d *database) GetStore() NonceStore {
	return d.store
}

// Connect opens the configured backend without touching its schema.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}

	switch cfg.Type {
	case TypeMemory:
		return &database{backend: noopBackend{}, store: memory.NewStore()}, nil
	case TypeSQLite:
		db, err := sqlite.Connect(ctx, cfg.DSN, table)
		if err != nil {
			return nil, err
		}
		return &database{backend: db, store: db.GetStore()}, nil
	case TypePostgres:
		db, err := postgres.Connect(ctx, cfg.DSN, table)
		if err != nil {
			return nil, err
		}
		return &database{backend: db, store: db.GetStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects to the configured backend, runs migrations, validates the
// schema and returns a ready-to-use NonceStore. The returned cleanup
// function closes the connection.
func Open(ctx context.Context, cfg Config) (NonceStore, func(), error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db.GetStore(), cleanup, nil
}

type noopBackend struct{}

func (noopBackend) Ping(context.Context) error     { return nil }
func (noopBackend) Migrate(context.Context) error  { return nil }
func (noopBackend) Validate(context.Context) error { return nil }
func (noopBackend) Close() error                   { return nil }
