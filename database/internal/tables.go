// Package internal holds helpers shared by the nonce store backends.
package internal

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxTableNameLength is the longest identifier PostgreSQL accepts unquoted.
const MaxTableNameLength = 63

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= MaxTableNameLength
}

// ValidateTableName returns an error describing why name cannot be used.
func ValidateTableName(name string) error {
	if name == "" {
		return errors.New("validate table: table name cannot be empty")
	}
	if !IsValidTableName(name) {
		return fmt.Errorf("validate table: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
	}
	return nil
}
