// Package keybackend provides acsign.SecretStore implementations used by the
// verifying gateway to resolve access key ids to secrets.
package keybackend

import (
	"fmt"

	"github.com/sagarc03/acsign"
)

// MapSecretStore resolves secrets from an in-memory map.
type MapSecretStore struct {
	keys map[string]string
}

// NewMapSecretStore creates a store over the given access key id to secret mapping.
func NewMapSecretStore(keys map[string]string) *MapSecretStore {
	return &MapSecretStore{keys: keys}
}

// Lookup returns the secret for accessKeyID.
func (s *MapSecretStore) Lookup(accessKeyID string) (string, error) {
	secret, found := s.keys[accessKeyID]
	if !found {
		return "", fmt.Errorf("%w: %w", ErrKeyNotFound, acsign.ErrUnauthorized)
	}
	return secret, nil
}

// Len returns the number of known access keys.
func (s *MapSecretStore) Len() int {
	return len(s.keys)
}
