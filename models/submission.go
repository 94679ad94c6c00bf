// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// RetentionInfo describes the data-retention window of a stored submission.
type RetentionInfo struct {
	// CreatedAt is when the submission was persisted.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt plus the retention window. After this instant
	// the submission must never be returned to callers, only to the cleanup
	// path.
	ExpiresAt time.Time `json:"expires_at"`

	// RetentionDays is the policy window the expiry was computed from.
	RetentionDays int `json:"retention_days"`
}

// SubmissionMeta is the plaintext metadata unit of a stored submission.
// It is persisted separately from the encrypted form and artifact so the
// retention sweeper can evaluate expiry without touching ciphertext.
type SubmissionMeta struct {
	// ID is the opaque submission identifier (UUID).
	ID string `json:"id"`

	// CreatedAt is when the submission was accepted.
	CreatedAt time.Time `json:"created_at"`

	// SizeBytes is the size of the original artifact in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// ContentHash is the hex-encoded SHA-256 of the original artifact bytes,
	// computed before encryption.
	ContentHash string `json:"content_hash"`

	// Retention carries the expiry information for this submission.
	Retention RetentionInfo `json:"retention"`
}

// Submission is a fully loaded consent submission: metadata plus the two
// encrypted units. Instances are owned exclusively by the submission storage;
// other components hold only the ID.
//
// A submission is created once per consent event and is never mutated after
// creation except by full deletion.
type Submission struct {
	SubmissionMeta

	// EncryptedForm holds each sensitive form field encrypted individually
	// under its own context, so corruption of one blob cannot destroy
	// unrelated fields.
	EncryptedForm map[string]EncryptedBlob `json:"encrypted_form"`

	// EncryptedArtifact is the rendered consent document encrypted as a
	// single blob.
	EncryptedArtifact EncryptedBlob `json:"encrypted_artifact"`
}

// DecryptedSubmission is a submission with its form fields and artifact
// restored to plaintext, assembled in memory for a download and never
// persisted.
type DecryptedSubmission struct {
	Meta     SubmissionMeta    `json:"meta"`
	Form     map[string]string `json:"form"`
	Artifact []byte            `json:"artifact"`
}

// CleanupReport summarizes one run of the expired-submission sweep.
type CleanupReport struct {
	// Scanned is the number of submissions whose metadata was inspected.
	Scanned int `json:"scanned"`

	// Deleted is the number of expired submissions that were securely
	// removed during this run.
	Deleted int `json:"deleted"`

	// Errors lists per-submission failures. A failure on one submission
	// never aborts the sweep.
	Errors []string `json:"errors,omitempty"`
}
