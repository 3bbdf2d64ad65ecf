package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/acsign/database/internal"
)

// nonceColumns lists the nonce table columns and their information_schema
// data types. Both must be NOT NULL.
var nonceColumns = [][2]string{
	{"nonce", "text"},
	{"seen_at", "timestamp with time zone"},
}

// ValidateSchema checks that the nonce table exists with the expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: query columns: %w", table, err)
	}
	defer rows.Close()

	types := make(map[string]string)
	notNull := make(map[string]bool)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("validate schema %s: scan column: %w", table, err)
		}
		types[name] = strings.ToLower(dataType)
		notNull[name] = nullable == "NO"
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}

	if len(types) == 0 {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	for _, col := range nonceColumns {
		name, want := col[0], col[1]
		got, ok := types[name]
		switch {
		case !ok:
			return fmt.Errorf("validate schema %s: column %s is missing", table, name)
		case got != want:
			return fmt.Errorf("validate schema %s: %s: expected %s, got %s", table, name, want, got)
		case !notNull[name]:
			return fmt.Errorf("validate schema %s: %s: must be NOT NULL", table, name)
		}
	}
	return nil
}
