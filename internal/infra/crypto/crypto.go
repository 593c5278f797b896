// Package crypto seals board blobs with AES-256-GCM.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32
)

var (
	// ErrInvalidKey is returned when the encryption key is invalid.
	ErrInvalidKey = errors.New("invalid encryption key: must be 32 bytes (64 hex characters)")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encryptor seals and opens board blobs.
//
// The most recent plaintext/ciphertext pair is remembered, whether it came
// from Encrypt or Decrypt. Sealing that plaintext again returns the same
// ciphertext, so saving an unchanged board keeps its blob hash.
// Fields are ordered to minimize memory padding.
type Encryptor struct {
	gcm      cipher.AEAD
	last     []byte
	lastHash [sha256.Size]byte
	mu       sync.Mutex
}

// NewEncryptor creates a new Encryptor with the given hex-encoded key.
// The key must be 64 hex characters (32 bytes).
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Encryptor{gcm: gcm}, nil
}

// Encrypt seals plaintext. The result is nonce (12 bytes) + ciphertext + auth tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	hash := sha256.Sum256(plaintext)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.last != nil && hash == e.lastHash {
		return bytes.Clone(e.last), nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := e.gcm.Seal(nonce, nonce, plaintext, nil)

	e.remember(hash, sealed)
	return sealed, nil
}

// Decrypt opens a blob produced by Encrypt.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := e.gcm.Open(nil, ciphertext[:NonceSize], ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	e.mu.Lock()
	e.remember(sha256.Sum256(plaintext), ciphertext)
	e.mu.Unlock()
	return plaintext, nil
}

// remember must be called with mu held.
func (e *Encryptor) remember(hash [sha256.Size]byte, sealed []byte) {
	e.lastHash = hash
	e.last = bytes.Clone(sealed)
}

// GenerateKey returns a new random hex-encoded key.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// ReadKey reads a hex-encoded key from path.
func ReadKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if b, err := hex.DecodeString(key); err != nil || len(b) != KeySize {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidKey)
	}
	return key, nil
}

// LoadOrCreateKey reads the key at path, writing a new one first if the
// file doesn't exist. Returns true if a key was created.
func LoadOrCreateKey(path string) (string, bool, error) {
	key, err := ReadKey(path)
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	key, err = GenerateKey()
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", false, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", false, fmt.Errorf("write key file: %w", err)
	}
	return key, true, nil
}
