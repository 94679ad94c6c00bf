// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// EncryptedBlob is the at-rest representation of a single encrypted value.
//
// Every field that influences decryption is stored alongside the ciphertext:
// the random salt used for key derivation, the GCM nonce, the detached
// authentication tag, and the caller-supplied context string. The context is
// bound into the authentication tag as additional authenticated data, so a
// blob cannot be silently relabeled and decrypted under a different purpose.
//
// Blobs are immutable. Re-encrypting a value always produces a new blob with
// a fresh salt and nonce; existing blobs are never modified in place.
type EncryptedBlob struct {
	// Ciphertext is the base64-encoded encrypted payload without the
	// authentication tag.
	Ciphertext string `json:"ciphertext"`

	// Salt is the base64-encoded random salt fed into key derivation
	// together with Context.
	Salt string `json:"salt"`

	// IV is the base64-encoded GCM nonce. Unique per encryption.
	IV string `json:"iv"`

	// AuthTag is the base64-encoded GCM authentication tag, stored detached
	// from the ciphertext.
	AuthTag string `json:"auth_tag"`

	// Algorithm names the cipher suite that produced the blob
	// (e.g. "aes-256-gcm+pbkdf2-sha256").
	Algorithm string `json:"algorithm"`

	// Context is the purpose label the blob was encrypted under
	// (e.g. "form:email" or "evidence-bundle:<id>"). Decryption fails if it
	// does not match the value supplied at encryption time.
	Context string `json:"context"`

	// CreatedAt records when the blob was produced.
	CreatedAt time.Time `json:"created_at"`
}
