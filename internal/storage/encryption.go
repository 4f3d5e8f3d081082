package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"
)

// EncryptedHeader prefixes every encrypted backup file.
const EncryptedHeader = "HOOPENC1"

const (
	// Argon2id parameters (RFC 9106 second recommended option)
	defaultArgon2Time    = 3
	defaultArgon2Memory  = 64 * 1024 // KiB
	defaultArgon2Threads = 4
	argon2KeyLen         = 32 // AES-256

	saltLength = 16
)

// ErrWrongPassphrase is returned when an encrypted backup cannot be opened.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted backup")

// EncryptionConfig holds the passphrase and key derivation cost.
type EncryptionConfig struct {
	Passphrase string

	// Argon2Time is the number of passes over memory.
	Argon2Time uint32

	// Argon2Memory is the memory cost in KiB.
	Argon2Memory uint32

	// Argon2Threads is the degree of parallelism.
	Argon2Threads uint8
}

// DefaultEncryptionConfig returns encryption config with secure defaults.
func DefaultEncryptionConfig(passphrase string) *EncryptionConfig {
	return &EncryptionConfig{
		Passphrase:    passphrase,
		Argon2Time:    defaultArgon2Time,
		Argon2Memory:  defaultArgon2Memory,
		Argon2Threads: defaultArgon2Threads,
	}
}

func (c *EncryptionConfig) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(c.Passphrase), salt, c.Argon2Time, c.Argon2Memory, c.Argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

func (c *EncryptionConfig) validate() error {
	if c == nil || c.Passphrase == "" {
		return fmt.Errorf("encryption passphrase required")
	}
	return nil
}

// Seal encrypts plaintext with AES-256-GCM under an Argon2id key.
// Layout: header || salt || nonce || ciphertext+tag.
func (c *EncryptionConfig) Seal(plaintext []byte) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(EncryptedHeader)+len(salt)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, EncryptedHeader...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func (c *EncryptionConfig) Open(sealed []byte) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	rest, ok := bytes.CutPrefix(sealed, []byte(EncryptedHeader))
	if !ok {
		return nil, fmt.Errorf("data is not an encrypted backup")
	}
	if len(rest) < saltLength {
		return nil, ErrWrongPassphrase
	}

	salt, rest := rest[:saltLength], rest[saltLength:]
	gcm, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrWrongPassphrase
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// EncryptFile writes an encrypted copy of sourcePath to destPath.
func EncryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	plaintext, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	sealed, err := config.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	if err := os.WriteFile(destPath, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted file: %w", err)
	}
	return nil
}

// DecryptFile writes the decrypted contents of sourcePath to destPath.
func DecryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	sealed, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read encrypted file: %w", err)
	}

	plaintext, err := config.Open(sealed)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}

	if err := os.WriteFile(destPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("failed to write decrypted file: %w", err)
	}
	return nil
}

// IsEncrypted reports whether a file starts with EncryptedHeader.
func IsEncrypted(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(EncryptedHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return string(header) == EncryptedHeader, nil
}
