// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

// Package service implements the business operations of the consent evidence
// vault: storing and retrieving encrypted submissions, issuing and redeeming
// download grants, OTP identity verification, and evidence bundle assembly.
//
// Services validate input, enforce lifecycle rules (retention, expiry, use
// counts, attempt limits) and translate storage and crypto failures into the
// sentinel errors of this package. Persistence and transport stay behind the
// store and adapter interfaces.
package service

import (
	"context"
	"time"

	"github.com/consentvault/consent-keeper/models"
)

// SubmissionService manages the lifecycle of consent submissions: encrypted
// intake, retrieval with decryption, secure deletion, and the retention
// sweep.
type SubmissionService interface {
	// Store encrypts the form fields and artifact of req and persists them as
	// a new submission with a fresh ID and the configured retention window.
	Store(ctx context.Context, req *models.ConsentRequest) (*models.Submission, error)

	// GetMeta returns the plaintext metadata of one submission.
	// Returns [ErrNotFound] for unknown IDs.
	GetMeta(ctx context.Context, id string) (models.SubmissionMeta, error)

	// Retrieve decrypts and returns a full submission. Returns [ErrNotFound]
	// for unknown IDs, [ErrExpired] for submissions past retention that the
	// sweep has not collected yet, and [ErrIntegrity] when any unit fails
	// authenticated decryption.
	Retrieve(ctx context.Context, id string) (*models.DecryptedSubmission, error)

	// Delete securely destroys a submission and revokes every grant issued
	// for it. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id string) error

	// CleanupExpired securely deletes every submission whose retention window
	// has passed at the given instant and reports what happened. Failures on
	// individual submissions are collected, not fatal.
	CleanupExpired(ctx context.Context, now time.Time) (models.CleanupReport, error)
}

// TokenService issues and redeems tokenized download grants.
type TokenService interface {
	// Issue creates a grant for the submission and returns the signed token
	// together with the server-side record. The request context (IP, user
	// agent) is captured for advisory binding.
	Issue(ctx context.Context, submissionID string, reqCtx models.RequestContext) (models.GrantToken, *models.DownloadGrant, error)

	// Redeem validates the signed token, checks the authoritative grant
	// record, and consumes one use. Returns [ErrValidation] for unparsable or
	// forged tokens, [ErrExpired] for expired ones, [ErrNotFound] for revoked
	// or collected grants, and [ErrGrantExhausted] when no uses remain.
	Redeem(ctx context.Context, tokenString string, reqCtx models.RequestContext) (*models.DownloadGrant, error)

	// Revoke removes one grant record, making its token unusable immediately.
	Revoke(ctx context.Context, tokenID string) error

	// RevokeBySubmission removes every grant of a submission and reports how
	// many were revoked.
	RevokeBySubmission(ctx context.Context, submissionID string) (int, error)

	// Sweep collects expired grants and exhausted grants past their grace
	// deadline.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// OTPService runs one-time-passcode identity verification.
type OTPService interface {
	// Request issues a fresh challenge for the recipient, replacing any live
	// one, and hands the code to the delivery collaborator. The returned
	// challenge carries no plaintext code.
	Request(ctx context.Context, recipient string) (*models.OTPChallenge, error)

	// Verify checks a submitted code. On success the challenge is consumed
	// and a verification record returned. On failure the error is
	// [ErrNotFound], [ErrExpired], [ErrAttemptsExceeded] or [ErrCodeMismatch],
	// and the int reports the attempts left.
	Verify(ctx context.Context, recipient, code string) (*models.VerificationRecord, int, error)
}

// EvidenceService assembles, stores and serves evidence bundles, and exposes
// chain verification.
type EvidenceService interface {
	// Assemble builds the evidence bundle for a freshly stored submission,
	// anchors its summary in the hash chain, encrypts the bundle and persists
	// it. Called exactly once per submission.
	Assemble(ctx context.Context, sub *models.Submission, fingerprint map[string]string, otp *models.VerificationRecord) (*models.EvidenceBundle, error)

	// Get decrypts and returns a stored bundle. Returns [ErrNotFound] when
	// the submission has no bundle and [ErrIntegrity] when decryption fails.
	Get(ctx context.Context, submissionID string) (*models.EvidenceBundle, error)

	// VerifyChain recomputes the hash chain from the given index.
	VerifyChain(ctx context.Context, fromIndex int64) (models.ChainVerification, error)
}
