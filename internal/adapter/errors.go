// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package adapter

import "errors"

var (
	// ErrTimestampUnavailable is returned when the timestamp authority cannot
	// be reached or answers with an error status.
	ErrTimestampUnavailable = errors.New("timestamp authority unavailable")

	// ErrNotificationFailed is returned when a one-time code could not be
	// delivered to the recipient.
	ErrNotificationFailed = errors.New("failed to deliver notification")

	// ErrBadRequest is mapped from a 400 response of an upstream service.
	ErrBadRequest = errors.New("upstream rejected request")
)
