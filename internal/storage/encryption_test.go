package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastEncryption keeps Argon2 cheap in tests.
func fastEncryption(passphrase string) *EncryptionConfig {
	return &EncryptionConfig{Passphrase: passphrase, Argon2Time: 1, Argon2Memory: 1024, Argon2Threads: 1}
}

func TestEncryptionConfig_SealOpen(t *testing.T) {
	config := fastEncryption("canasta")
	plaintext := []byte("performance sheets")

	sealed, err := config.Seal(plaintext)
	require.NoError(t, err)
	assert.Equal(t, EncryptedHeader, string(sealed[:len(EncryptedHeader)]))
	assert.NotContains(t, string(sealed), "performance sheets")

	opened, err := config.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)

	again, err := config.Seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "salt and nonce are random per call")
}

func TestEncryptionConfig_WrongPassphrase(t *testing.T) {
	sealed, err := fastEncryption("right").Seal([]byte("data"))
	require.NoError(t, err)

	_, err = fastEncryption("wrong").Open(sealed)
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestEncryptionConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config *EncryptionConfig
		input  []byte
	}{
		{"nil config", nil, []byte(EncryptedHeader + "x")},
		{"empty passphrase", fastEncryption(""), []byte(EncryptedHeader + "x")},
		{"missing header", fastEncryption("p"), []byte("plain sqlite file")},
		{"truncated", fastEncryption("p"), []byte(EncryptedHeader + "short")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.config.Open(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")
	require.NoError(t, os.WriteFile(src, []byte("SQLite format 3"), 0o600))

	config := fastEncryption("secret")
	require.NoError(t, EncryptFile(src, enc, config))

	encrypted, err := IsEncrypted(enc)
	require.NoError(t, err)
	assert.True(t, encrypted)

	plain, err := IsEncrypted(src)
	require.NoError(t, err)
	assert.False(t, plain)

	require.NoError(t, DecryptFile(enc, dec, config))
	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, "SQLite format 3", string(got))
}

func TestIsEncrypted_ShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny")
	require.NoError(t, os.WriteFile(path, []byte("HOO"), 0o600))

	encrypted, err := IsEncrypted(path)
	require.NoError(t, err)
	assert.False(t, encrypted)
}
