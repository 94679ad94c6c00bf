// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import "errors"

// Sentinel errors returned by storage methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrSubmissionNotFound is returned when no submission with the given
	// ID exists.
	ErrSubmissionNotFound = errors.New("submission was not found")

	// ErrSubmissionExists is returned when Save targets an ID that already
	// has persisted units. Submissions are immutable; they are never
	// overwritten.
	ErrSubmissionExists = errors.New("submission already exists")

	// ErrGrantNotFound is returned when no grant record with the given
	// token ID exists — unknown, revoked, or already collected.
	ErrGrantNotFound = errors.New("download grant was not found")

	// ErrChallengeNotFound is returned when the recipient has no live OTP
	// challenge.
	ErrChallengeNotFound = errors.New("otp challenge was not found")

	// ErrBundleNotFound is returned when a submission has no evidence
	// bundle.
	ErrBundleNotFound = errors.New("evidence bundle was not found")

	// ErrBundleExists is returned when a second bundle is saved for the
	// same submission. Bundles are created exactly once.
	ErrBundleExists = errors.New("evidence bundle already exists")

	// ErrCorruptedUnit is returned when a persisted storage unit exists but
	// cannot be parsed. Treated as an integrity failure, never repaired.
	ErrCorruptedUnit = errors.New("storage unit is corrupted")
)

// Low-level database operation errors. These are returned (or wrapped) by
// SQL repository methods when an operation fails before any domain logic can
// be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when an error is detected during
	// multi-row iteration.
	ErrScanningRows = errors.New("failed to scan rows")
)
