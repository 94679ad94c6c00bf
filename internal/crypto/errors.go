// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package crypto

import "errors"

// Sentinel errors returned by the encryptor. Callers should use [errors.Is]
// to match against these values.
var (
	// ErrInvalidInput is returned when the plaintext or context handed to
	// Encrypt is empty, or when a blob handed to Decrypt is structurally
	// incomplete. No side effects have occurred when it is returned.
	ErrInvalidInput = errors.New("invalid encryption input")

	// ErrDecryptionFailed is returned when authentication of a blob fails:
	// the ciphertext, IV, tag or salt was altered, the context does not
	// match the one used at encryption time, or the master key is wrong.
	// This error indicates tampering or corruption and must never be
	// retried or masked.
	ErrDecryptionFailed = errors.New("decryption failed")
)
