package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// KeyPair is an access key id and its secret.
type KeyPair struct {
	AccessKeyID     string `json:"access_key_id" mapstructure:"access_key_id"`
	AccessKeySecret string `json:"access_key_secret" mapstructure:"access_key_secret"`
}

// LoadKeysFromFile loads key pairs from a JSON file holding an array:
//
//	[
//	  {"access_key_id": "LTAI5tExample", "access_key_secret": "s3cr3t"},
//	  {"access_key_id": "LTAI5tOther", "access_key_secret": "other"}
//	]
//
// Pairs with an empty id or secret are skipped. Later duplicates win.
func LoadKeysFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}

	var pairs []KeyPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse keys file: %w", err)
	}

	return pairsToMap(pairs), nil
}

func pairsToMap(pairs []KeyPair) map[string]string {
	keys := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if p.AccessKeyID != "" && p.AccessKeySecret != "" {
			keys[p.AccessKeyID] = p.AccessKeySecret
		}
	}
	return keys
}
