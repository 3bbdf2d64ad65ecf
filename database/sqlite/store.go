// Package sqlite implements the nonce store using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store records signature nonces in a SQLite table.
type Store struct {
	db    *sql.DB
	table string
}

// Remember inserts nonce and reports whether it was new.
func (s *Store) Remember(ctx context.Context, nonce string, seenAt time.Time) (bool, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (nonce, seen_at) VALUES (?, ?) ON CONFLICT (nonce) DO NOTHING`,
		quoteIdentifier(s.table))

	res, err := s.db.ExecContext(ctx, query, nonce, seenAt.UTC().UnixNano())
	if err != nil {
		return false, fmt.Errorf("remember: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remember: rows affected: %w", err)
	}

	return n == 1, nil
}

// Purge deletes nonces seen before the cutoff and returns how many were removed.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE seen_at < ?`, quoteIdentifier(s.table))

	res, err := s.db.ExecContext(ctx, query, before.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge: rows affected: %w", err)
	}

	return n, nil
}

// Count returns the number of stored nonces.
func (s *Store) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdentifier(s.table)) //nolint:gosec // table name is validated

	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
