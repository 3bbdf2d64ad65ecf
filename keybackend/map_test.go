package keybackend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/acsign"
	"github.com/sagarc03/acsign/keybackend"
)

func TestMapSecretStore_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		keys        map[string]string
		accessKeyID string
		want        string
		wantErr     bool
	}{
		{
			name:        "known id",
			keys:        map[string]string{"LTAI1": "secret1", "LTAI2": "secret2"},
			accessKeyID: "LTAI2",
			want:        "secret2",
		},
		{
			name:        "unknown id",
			keys:        map[string]string{"LTAI1": "secret1"},
			accessKeyID: "LTAI9",
			wantErr:     true,
		},
		{
			name:        "nil map",
			keys:        nil,
			accessKeyID: "LTAI1",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := keybackend.NewMapSecretStore(tt.keys)
			got, err := store.Lookup(tt.accessKeyID)

			if tt.wantErr {
				require.ErrorIs(t, err, keybackend.ErrKeyNotFound)
				require.ErrorIs(t, err, acsign.ErrUnauthorized)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapSecretStore_ImplementsSecretStore(t *testing.T) {
	var store acsign.SecretStore = keybackend.NewMapSecretStore(map[string]string{"a": "b"})

	assert.NotNil(t, store)
	assert.Equal(t, 1, keybackend.NewMapSecretStore(map[string]string{"a": "b"}).Len())
}
