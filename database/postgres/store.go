// Package postgres implements the nonce store using PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store records signature nonces in a PostgreSQL table. It is safe to share
// one table between several verifier instances.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// Remember inserts nonce and reports whether it was new.
func (s *Store) Remember(ctx context.Context, nonce string, seenAt time.Time) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (nonce, seen_at)
		VALUES ($1, $2)
		ON CONFLICT (nonce) DO NOTHING
	`, pgx.Identifier{s.table}.Sanitize())

	tag, err := s.pool.Exec(ctx, query, nonce, seenAt.UTC())
	if err != nil {
		return false, fmt.Errorf("remember: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Purge deletes nonces seen before the cutoff and returns how many were removed.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE seen_at < $1`, pgx.Identifier{s.table}.Sanitize())

	tag, err := s.pool.Exec(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Count returns the number of stored nonces.
func (s *Store) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, pgx.Identifier{s.table}.Sanitize())

	var n int64
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
