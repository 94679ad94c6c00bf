// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package crypto

import "github.com/consentvault/consent-keeper/models"

// Encryptor performs authenticated field-level encryption of strings under a
// caller-supplied context label.
//
// The context is bound into the authentication tag, so a blob encrypted for
// one purpose can never be decrypted under another: Decrypt fails closed on
// any bit-flip in ciphertext, IV, tag, salt, or context.
type Encryptor interface {
	// Encrypt derives a fresh per-blob key from the master key, salt and
	// context, then seals plaintext with AES-256-GCM using a fresh random
	// nonce. Returns [ErrInvalidInput] for empty plaintext or context.
	Encrypt(plaintext, context string) (models.EncryptedBlob, error)

	// Decrypt reverses Encrypt. Returns [ErrDecryptionFailed] on any
	// tampering, wrong context, or wrong master key — never silently
	// corrupted output.
	Decrypt(blob models.EncryptedBlob) (string, error)
}
