package keybackend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/acsign/keybackend"
)

func TestNewSecretStore(t *testing.T) {
	t.Parallel()

	path := writeKeysFile(t, `[
		{"access_key_id": "FILE", "access_key_secret": "file_secret"},
		{"access_key_id": "SHARED", "access_key_secret": "from_file"}
	]`)

	store, err := keybackend.NewSecretStore(keybackend.KeysConfig{
		Inline: []keybackend.KeyPair{
			{AccessKeyID: "INLINE", AccessKeySecret: "inline_secret"},
			{AccessKeyID: "SHARED", AccessKeySecret: "from_inline"},
			{AccessKeyID: "EMPTY"},
		},
		File: path,
	})
	require.NoError(t, err)

	for id, want := range map[string]string{
		"INLINE": "inline_secret",
		"FILE":   "file_secret",
		"SHARED": "from_file",
	} {
		got, err := store.Lookup(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	_, err = store.Lookup("EMPTY")
	assert.ErrorIs(t, err, keybackend.ErrKeyNotFound)
}

func TestNewSecretStore_FileErrors(t *testing.T) {
	t.Parallel()

	_, err := keybackend.NewSecretStore(keybackend.KeysConfig{File: "/nonexistent/keys.json"})
	assert.Error(t, err)

	_, err = keybackend.NewSecretStore(keybackend.KeysConfig{File: writeKeysFile(t, "{")})
	assert.Error(t, err)
}

func TestNewSecretStore_Empty(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewSecretStore(keybackend.KeysConfig{})
	require.NoError(t, err)

	_, err = store.Lookup("anything")
	assert.ErrorIs(t, err, keybackend.ErrKeyNotFound)
}
