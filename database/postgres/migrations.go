package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the nonce table and its index if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if err := createNonceTable(ctx, pool, table); err != nil {
		return fmt.Errorf("migrate up %s: %w", table, err)
	}
	return nil
}

// DropTables removes every table Migrate creates.
func DropTables(ctx context.Context, pool *pgxpool.Pool, table string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{table}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", table, err)
	}
	return nil
}

func createNonceTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexSeenAt := pgx.Identifier{fmt.Sprintf("idx_%s_seen_at", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			nonce TEXT PRIMARY KEY,
			seen_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (seen_at);
	`,
		quotedTable,
		indexSeenAt, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create nonce table: %w", err)
	}
	return nil
}
