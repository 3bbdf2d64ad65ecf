package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sagarc03/acsign/database/internal"
)

// nonceColumns lists the nonce table columns and their declared SQLite types.
// Both must be NOT NULL.
var nonceColumns = [][2]string{
	{"nonce", "text"},
	{"seen_at", "integer"},
}

// ValidateSchema checks that the nonce table exists with the expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	// table_info yields no rows for a missing table.
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return fmt.Errorf("validate schema %s: query columns: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	types := make(map[string]string)
	notNull := make(map[string]bool)
	for rows.Next() {
		var (
			cid, nn, pk    int
			name, dataType string
			dflt           sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &nn, &dflt, &pk); err != nil {
			return fmt.Errorf("validate schema %s: scan column: %w", table, err)
		}
		types[name] = strings.ToLower(dataType)
		notNull[name] = nn == 1
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
