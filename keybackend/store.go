package keybackend

import (
	"github.com/sagarc03/acsign"
)

// KeysConfig holds configuration for loading access keys.
type KeysConfig struct {
	Inline []KeyPair `mapstructure:"inline"` // key pairs written in the config file
	File   string    `mapstructure:"file"`   // JSON file with more key pairs
}

// NewSecretStore builds a SecretStore from inline pairs and the optional
// keys file. File entries override inline entries with the same id.
func NewSecretStore(cfg KeysConfig) (acsign.SecretStore, error) {
	keys := pairsToMap(cfg.Inline)

	if cfg.File != "" {
		fileKeys, err := LoadKeysFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for k, v := range fileKeys {
			keys[k] = v
		}
	}

	return NewMapSecretStore(keys), nil
}
