package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize    = 32 // AES-256
	nonceSize  = 12
	saltSize   = 32
	iterations = 100000
)

// MinPasswordLength is the minimum accepted master password length.
const MinPasswordLength = 8

// Encryptor encrypts credential profiles at rest with AES-256-GCM, deriving
// the key from a master password with PBKDF2.
type Encryptor struct {
	password []byte
}

// NewEncryptor creates an encryptor with the given master password.
func NewEncryptor(password string) *Encryptor {
	return &Encryptor{password: []byte(password)}
}

// ValidatePassword checks a master password candidate.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Encrypt seals plaintext. The output is salt || nonce || ciphertext, so one
// blob carries everything decryption needs.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := e.cipherFor(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, saltSize+nonceSize+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens a blob produced by Encrypt.
func (e *Encryptor) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < saltSize+nonceSize+1 {
		return nil, errors.New("encrypted blob is too short")
	}
	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	gcm, err := e.cipherFor(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("decryption failed: wrong password or corrupted data")
	}
	return plaintext, nil
}

// EncryptString seals a string and encodes the blob as base64 for JSON
// storage.
func (e *Encryptor) EncryptString(plaintext string) (string, error) {
	blob, err := e.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptString reverses EncryptString.
func (e *Encryptor) DecryptString(encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid encrypted data encoding: %w", err)
	}
	plaintext, err := e.Decrypt(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (e *Encryptor) cipherFor(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(e.password, salt, iterations, keySize, sha256.New)
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
