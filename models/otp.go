// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// OTPChallenge is a live one-time-passcode challenge bound to a recipient.
//
// Only the keyed hash of the code is stored; the plaintext code exists solely
// in the notification handed to the delivery collaborator. At most one live
// challenge exists per recipient — issuing a new one replaces the old.
// A challenge is deleted on first successful verification, on expiry, or on
// exhausting its attempts.
type OTPChallenge struct {
	// ID identifies the challenge (UUID).
	ID string `json:"id"`

	// Recipient is the identity the code was delivered to (e.g. an email
	// address).
	Recipient string `json:"recipient"`

	// CodeHash is the HMAC-SHA256 of the plaintext code.
	CodeHash []byte `json:"-"`

	// Attempts counts verification attempts made so far.
	Attempts int `json:"attempts"`

	// MaxAttempts is the attempt limit after which the challenge is
	// invalidated.
	MaxAttempts int `json:"max_attempts"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge TTL has passed at the given instant.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// VerificationRecord is the proof of a successful OTP verification, returned
// to the caller for embedding into an evidence bundle.
type VerificationRecord struct {
	ChallengeID string    `json:"challenge_id"`
	Recipient   string    `json:"recipient"`
	VerifiedAt  time.Time `json:"verified_at"`
}
