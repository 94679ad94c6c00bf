// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"time"

	"github.com/consentvault/consent-keeper/models"
)

// SubmissionStorage persists consent submissions as three separable units
// (plaintext metadata, encrypted form, encrypted artifact) keyed by
// submission ID, and destroys them securely.
type SubmissionStorage interface {
	// Save persists all three units of a new submission. Returns
	// [ErrSubmissionExists] if the ID is already taken.
	Save(ctx context.Context, sub *models.Submission) error

	// GetMeta reads only the plaintext metadata unit.
	// Returns [ErrSubmissionNotFound] if absent.
	GetMeta(ctx context.Context, id string) (models.SubmissionMeta, error)

	// GetForm reads the encrypted form unit.
	GetForm(ctx context.Context, id string) (map[string]models.EncryptedBlob, error)

	// GetArtifact reads the encrypted artifact unit.
	GetArtifact(ctx context.Context, id string) (models.EncryptedBlob, error)

	// Delete overwrites every unit with random bytes for the configured
	// number of passes and then removes it. Deleting an absent ID is a
	// no-op, not an error, so sweeps are safely re-runnable.
	Delete(ctx context.Context, id string) error

	// ListMeta returns the metadata of every stored submission, for the
	// retention sweep.
	ListMeta(ctx context.Context) ([]models.SubmissionMeta, error)
}

// GrantStorage is the server-side download-grant table. The signed token is
// a capability, but this record is authoritative for redemption state.
//
// Implementations: an in-process map for single-instance deployments and a
// SQL table for deployments that share grant state between instances.
type GrantStorage interface {
	Save(ctx context.Context, grant *models.DownloadGrant) error

	// Get returns [ErrGrantNotFound] for unknown, revoked, or collected
	// grants.
	Get(ctx context.Context, tokenID string) (*models.DownloadGrant, error)

	// Update overwrites the stored record (use count, grace deadline).
	Update(ctx context.Context, grant *models.DownloadGrant) error

	// Delete removes a grant record immediately. Deleting an absent ID is a
	// no-op.
	Delete(ctx context.Context, tokenID string) error

	// DeleteBySubmission removes every grant for a submission and reports
	// how many were removed.
	DeleteBySubmission(ctx context.Context, submissionID string) (int, error)

	// DeleteExpired removes grants whose expiry has passed and exhausted
	// grants whose grace deadline has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ChallengeStorage holds live OTP challenges keyed by recipient. At most one
// live challenge per recipient; Put replaces any existing one.
type ChallengeStorage interface {
	Put(ctx context.Context, challenge *models.OTPChallenge) error

	// GetByRecipient returns [ErrChallengeNotFound] when the recipient has
	// no live challenge.
	GetByRecipient(ctx context.Context, recipient string) (*models.OTPChallenge, error)

	// Update overwrites the stored challenge (attempt counter).
	Update(ctx context.Context, challenge *models.OTPChallenge) error

	// DeleteByRecipient removes the recipient's challenge. Absent is a
	// no-op.
	DeleteByRecipient(ctx context.Context, recipient string) error
}

// BundleStorage persists one encrypted evidence bundle per submission.
type BundleStorage interface {
	// Save stores the encrypted bundle with its chain anchor. Returns
	// [ErrBundleExists] if the submission already has one — bundles are
	// created exactly once.
	Save(ctx context.Context, record *BundleRecord) error

	// Get returns [ErrBundleNotFound] if the submission has no bundle.
	Get(ctx context.Context, submissionID string) (*BundleRecord, error)
}

// ErrorClassificator decides whether a failed database operation may succeed
// if attempted again. Each supported engine provides its own implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// BundleRecord is the persisted form of an evidence bundle: the bundle JSON
// encrypted as one blob plus the plaintext anchor fields needed for audit
// queries without decryption.
type BundleRecord struct {
	SubmissionID string
	Blob         models.EncryptedBlob
	Anchor       models.ChainAnchor
	Degraded     bool
	CreatedAt    time.Time
}
