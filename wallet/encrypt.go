package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/argon2"
)

// Key files holding long-lived funding keys can be stored encrypted.
// Format: salt(16B) || nonce(12B) || AES-256-GCM(argon2id(password, salt), nonce, key)
// GCM's authentication tag doubles as the wrong-password check.

const (
	// Argon2id parameters for key-file encryption.
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	saltLen  = 16
	nonceLen = 12
)

// EncryptKey encrypts a private key with a password.
func EncryptKey(key *btcec.PrivateKey, password string) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: generate salt: %w", err)
	}

	gcm, err := newKeyCipher(password, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, key.Serialize(), nil)

	out := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	return append(out, ciphertext...), nil
}

// DecryptKey decrypts a key blob produced by EncryptKey. A wrong password
// or corrupted blob yields ErrDecryptionFailed.
func DecryptKey(blob []byte, password string) (*btcec.PrivateKey, error) {
	if len(blob) < saltLen+nonceLen+1 {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}
	salt := blob[:saltLen]
	nonce := blob[saltLen : saltLen+nonceLen]
	ciphertext := blob[saltLen+nonceLen:]

	gcm, err := newKeyCipher(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) != privateKeyLen {
		return nil, fmt.Errorf("%w: unexpected key length %d", ErrDecryptionFailed, len(plaintext))
	}
	key, _ := btcec.PrivKeyFromBytes(plaintext)
	return key, nil
}

// LoadEncryptedKeyFile reads and decrypts an encrypted key file.
func LoadEncryptedKeyFile(path, password string) (*btcec.PrivateKey, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKeyFileRead, path, err)
	}
	key, err := DecryptKey(blob, password)
	if err != nil {
		return nil, fmt.Errorf("wallet: key file %s: %w", path, err)
	}
	return key, nil
}

// newKeyCipher derives the AES-256-GCM cipher for a password and salt.
func newKeyCipher(password string, salt []byte) (cipher.AEAD, error) {
	derived := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}
	return gcm, nil
}
