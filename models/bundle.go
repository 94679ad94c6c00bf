// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// NoticeVersion describes the consent notice text that was in force when a
// submission was made.
type NoticeVersion struct {
	// Version is the human-assigned notice version (e.g. "2026-03").
	Version string `json:"version"`

	// ContentHash is the hex-encoded SHA-256 of the notice text.
	ContentHash string `json:"content_hash"`

	// EffectiveDate is when this version became active.
	EffectiveDate time.Time `json:"effective_date"`
}

// TrustedTimestamp is a timestamp over an artifact hash.
//
// When the external time authority is reachable, Time and ProofToken come
// from the authority and Degraded is false. When it is not, Time is the local
// clock, ProofToken is empty and Degraded is true — degraded timestamps carry
// lower evidentiary weight and are never presented as authoritative.
type TrustedTimestamp struct {
	Time time.Time `json:"time"`

	// ProofToken is the opaque proof issued by the authority, empty when
	// degraded.
	ProofToken string `json:"proof_token,omitempty"`

	// Authority identifies the issuing time authority, empty when degraded.
	Authority string `json:"authority,omitempty"`

	// Degraded marks a locally generated fallback timestamp.
	Degraded bool `json:"degraded"`
}

// ChainAnchor locates an evidence record inside the hash chain.
type ChainAnchor struct {
	Index    int64  `json:"index"`
	Hash     string `json:"hash"`
	PrevHash string `json:"prev_hash,omitempty"`
}

// EvidenceBundle is the consolidated audit record tying a consent submission
// to its identity-verification, timing and integrity proofs. It is created
// exactly once per submission, stored encrypted, and never mutated.
type EvidenceBundle struct {
	SubmissionID string    `json:"submission_id"`
	CreatedAt    time.Time `json:"created_at"`

	// ArtifactHash is the hex-encoded SHA-256 of the artifact bytes; it
	// equals the submission's ContentHash.
	ArtifactHash string `json:"artifact_hash"`

	// Notice is the notice version in force at submission time.
	Notice NoticeVersion `json:"notice"`

	// OTPVerification is present when the caller completed identity
	// verification before submitting.
	OTPVerification *VerificationRecord `json:"otp_verification,omitempty"`

	// DeviceFingerprint is caller-supplied device evidence (user agent,
	// screen, timezone, ...). Stored as-is.
	DeviceFingerprint map[string]string `json:"device_fingerprint,omitempty"`

	// Timestamp is the trusted (or explicitly degraded) timestamp over
	// ArtifactHash.
	Timestamp TrustedTimestamp `json:"timestamp"`

	// Anchor is where the bundle's compact summary landed in the hash chain.
	Anchor ChainAnchor `json:"anchor"`
}
