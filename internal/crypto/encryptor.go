// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/consentvault/consent-keeper/models"
)

const (
	// DefaultIterations is the PBKDF2 iteration floor. Lower values are
	// rejected at construction time.
	DefaultIterations = 100_000

	saltSize = 16
	keySize  = 32 // 256 bits

	// algorithmID names the only cipher suite this encryptor produces and
	// accepts. Blobs carrying a different identifier fail decryption.
	algorithmID = "aes-256-gcm+pbkdf2-sha256"
)

// fieldEncryptor is the private implementation of [Encryptor].
//
// Each Encrypt call derives its own key with PBKDF2-SHA256 over
// masterKey ‖ (salt ‖ context), so reusing the master key across contexts
// never reuses a key, and a fresh random nonce guarantees IV uniqueness
// within a key.
type fieldEncryptor struct {
	masterKey  []byte
	iterations int
}

// NewFieldEncryptor constructs an [Encryptor] keyed by masterKey.
//
// iterations tunes the PBKDF2 cost; pass 0 for [DefaultIterations]. Returns
// an error for an empty master key or an iteration count below the floor.
func NewFieldEncryptor(masterKey string, iterations int) (Encryptor, error) {
	if masterKey == "" {
		return nil, fmt.Errorf("%w: empty master key", ErrInvalidInput)
	}
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < DefaultIterations {
		return nil, fmt.Errorf("%w: pbkdf2 iterations %d below floor %d", ErrInvalidInput, iterations, DefaultIterations)
	}

	return &fieldEncryptor{
		masterKey:  []byte(masterKey),
		iterations: iterations,
	}, nil
}

// deriveKey stretches the master key into a 256-bit per-blob key. The context
// is folded into the PBKDF2 salt in addition to being bound as AAD, so two
// blobs with equal salts but different contexts still use different keys.
func (f *fieldEncryptor) deriveKey(salt []byte, context string) []byte {
	material := make([]byte, 0, len(salt)+len(context))
	material = append(material, salt...)
	material = append(material, []byte(context)...)

	return pbkdf2.Key(f.masterKey, material, f.iterations, keySize, sha256.New)
}

// Encrypt implements [Encryptor].
func (f *fieldEncryptor) Encrypt(plaintext, context string) (models.EncryptedBlob, error) {
	if plaintext == "" {
		return models.EncryptedBlob{}, fmt.Errorf("%w: empty plaintext", ErrInvalidInput)
	}
	if context == "" {
		return models.EncryptedBlob{}, fmt.Errorf("%w: empty context", ErrInvalidInput)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := f.newGCM(salt, context)
	if err != nil {
		return models.EncryptedBlob{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends the 16-byte auth tag to the ciphertext; store it
	// detached so the blob mirrors its on-disk schema.
	sealed := gcm.Seal(nil, nonce, []byte(plaintext), []byte(context))
	tagStart := len(sealed) - gcm.Overhead()

	return models.EncryptedBlob{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagStart:]),
		Algorithm:  algorithmID,
		Context:    context,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Decrypt implements [Encryptor].
func (f *fieldEncryptor) Decrypt(blob models.EncryptedBlob) (string, error) {
	if blob.Algorithm != algorithmID {
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrDecryptionFailed, blob.Algorithm)
	}
	if blob.Context == "" {
		return "", fmt.Errorf("%w: blob has no context", ErrInvalidInput)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext decode: %w", ErrDecryptionFailed, err)
	}
	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return "", fmt.Errorf("%w: salt decode: %w", ErrDecryptionFailed, err)
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return "", fmt.Errorf("%w: iv decode: %w", ErrDecryptionFailed, err)
	}
	tag, err := base64.StdEncoding.DecodeString(blob.AuthTag)
	if err != nil {
		return "", fmt.Errorf("%w: auth tag decode: %w", ErrDecryptionFailed, err)
	}

	gcm, err := f.newGCM(salt, blob.Context)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", fmt.Errorf("%w: bad nonce size %d", ErrDecryptionFailed, len(nonce))
	}

	// Reattach the tag; Open verifies it together with the context AAD.
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, []byte(blob.Context))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

func (f *fieldEncryptor) newGCM(salt []byte, context string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(f.deriveKey(salt, context))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
