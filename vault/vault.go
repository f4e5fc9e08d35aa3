// Package vault turns third-party API keys into authenticated ciphertext and back.
//
// A Vault holds one process-wide AES-256 key, decoded once from its hex form.
// Every Encrypt call draws a fresh 96-bit nonce, so sealing the same plaintext
// twice never yields the same EncryptedSecret. The Vault owns no storage: the
// three parts of an EncryptedSecret are persisted together by the caller.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
)

const (
	// KeySize is the size of the AES-256 key in bytes.
	KeySize = 32

	// NonceSize is the size of the GCM nonce in bytes.
	NonceSize = 12

	// TagSize is the size of the GCM authentication tag in bytes.
	TagSize = 16
)

// EncryptedSecret is one sealed value. The parts are meaningless apart.
type EncryptedSecret struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"iv"`
	Tag        []byte `json:"authTag"`
}

// IsZero reports whether the secret has never been set.
func (s EncryptedSecret) IsZero() bool {
	return len(s.Ciphertext) == 0 && len(s.Nonce) == 0 && len(s.Tag) == 0
}

// Vault encrypts and decrypts secrets with a fixed key. It is safe for concurrent use.
type Vault struct {
	aead   cipher.AEAD
	keyErr error
}

// New decodes the hex encoded key. A missing or malformed key is not reported
// here; it is remembered and returned as ErrConfiguration by Validate, Encrypt
// and Decrypt.
func New(encodedKey string) *Vault {
	aead, err := newAEAD(encodedKey)
	return &Vault{aead: aead, keyErr: err}
}

func newAEAD(encodedKey string) (cipher.AEAD, error) {
	encodedKey = strings.TrimSpace(encodedKey)
	if encodedKey == "" {
		return nil, fmt.Errorf("%w: encryption key is not set", apperrors.ErrConfiguration)
	}

	key, err := hex.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key must be hex encoded", apperrors.ErrConfiguration)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", apperrors.ErrConfiguration, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: aes.NewCipher: %v", apperrors.ErrConfiguration, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: cipher.NewGCM: %v", apperrors.ErrConfiguration, err)
	}
	return aead, nil
}

// Validate returns the key error, if any.
func (v *Vault) Validate() error {
	return v.keyErr
}

// Encrypt seals plaintext under a freshly generated nonce.
func (v *Vault) Encrypt(plaintext string) (EncryptedSecret, error) {
	if v.keyErr != nil {
		return EncryptedSecret{}, v.keyErr
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return EncryptedSecret{}, fmt.Errorf("[Vault Encrypt] failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - TagSize

	return EncryptedSecret{
		Ciphertext: sealed[:split:split],
		Nonce:      nonce,
		Tag:        sealed[split:],
	}, nil
}

// Decrypt opens a secret and verifies its tag in the same step.
func (v *Vault) Decrypt(secret EncryptedSecret) (string, error) {
	if v.keyErr != nil {
		return "", v.keyErr
	}
	if len(secret.Nonce) != NonceSize || len(secret.Tag) != TagSize {
		return "", apperrors.ErrDecryption
	}

	sealed := make([]byte, 0, len(secret.Ciphertext)+TagSize)
	sealed = append(sealed, secret.Ciphertext...)
	sealed = append(sealed, secret.Tag...)

	plaintext, err := v.aead.Open(nil, secret.Nonce, sealed, nil)
	if err != nil {
		return "", apperrors.ErrDecryption
	}
	return string(plaintext), nil
}

// GenerateKey returns a random key in the encoding New expects.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}
