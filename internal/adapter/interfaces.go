// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

// Package adapter provides the outward-facing integrations of the evidence
// service: the trusted timestamp authority, OTP code delivery, and the
// consent notice registry.
//
// Each integration is an interface so the service layer stays decoupled from
// the concrete transport. Error values defined in errors.go let callers use
// [errors.Is] for transport-agnostic handling (e.g. [ErrTimestampUnavailable]
// when the authority cannot be reached and a degraded local timestamp must be
// recorded instead).
package adapter

import (
	"context"

	"github.com/consentvault/consent-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// TimestampAuthority obtains a trusted timestamp over an artifact digest from
// an external authority.
type TimestampAuthority interface {
	// Stamp submits the hex-encoded digest and returns the authority's signed
	// timestamp. Returns [ErrTimestampUnavailable] (wrapped) when the
	// authority cannot be reached or answers with a non-2xx status; the
	// caller decides whether to fail or degrade to a local clock reading.
	Stamp(ctx context.Context, digest string) (models.TrustedTimestamp, error)
}

// Notifier delivers a one-time verification code to a recipient address
// (email or phone, depending on the deployment's gateway).
type Notifier interface {
	Send(ctx context.Context, recipient, code string) error
}

// NoticeProvider exposes the consent notice version currently in effect.
// Every evidence bundle records the exact notice the person saw.
type NoticeProvider interface {
	Current() models.NoticeVersion
}
