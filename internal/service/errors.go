// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import "errors"

// Service-level sentinel errors. The HTTP layer maps these onto status codes;
// everything else in a returned error chain is treated as internal.
var (
	// ErrValidation covers malformed or incomplete input.
	ErrValidation = errors.New("invalid data provided")

	// ErrNotFound covers lookups of submissions, grants, challenges or
	// bundles that do not exist.
	ErrNotFound = errors.New("resource was not found")

	// ErrExpired covers resources past their lifetime: submissions past
	// retention, tokens past expiry, challenges past their TTL.
	ErrExpired = errors.New("resource has expired")

	// ErrIntegrity covers failed decryption and failed chain verification.
	// Integrity failures are surfaced, never repaired.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrAttemptsExceeded is returned when an OTP challenge has used up its
	// verification attempts.
	ErrAttemptsExceeded = errors.New("verification attempts exceeded")

	// ErrCodeMismatch is returned for a wrong OTP code while attempts remain.
	ErrCodeMismatch = errors.New("verification code does not match")

	// ErrGrantExhausted is returned when a download grant has no redemptions
	// left.
	ErrGrantExhausted = errors.New("download grant exhausted")

	// ErrUpstreamUnavailable is returned when a required external dependency
	// (e.g. code delivery) failed.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
