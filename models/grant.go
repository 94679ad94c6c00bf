// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DownloadGrant is the server-side record backing a signed download token.
//
// The signed JWT is a self-contained capability, but redemption state lives
// here and is authoritative: a grant whose record has been revoked or
// exhausted is unusable even though its signature remains valid.
type DownloadGrant struct {
	// TokenID is the unique grant identifier, also embedded in the signed
	// token as the "jti" claim.
	TokenID string `json:"token_id"`

	// SubmissionID is the submission the grant authorizes access to.
	SubmissionID string `json:"submission_id"`

	// IssuedAt and ExpiresAt bound the grant's lifetime.
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// MaxUses is how many successful redemptions the grant allows.
	MaxUses int `json:"max_uses"`

	// UseCount is incremented on every successful redemption.
	UseCount int `json:"use_count"`

	// BoundIP and BoundUserAgent are the advisory request context captured
	// at issuance. A mismatch on redemption is logged, never fatal.
	BoundIP        string `json:"bound_ip,omitempty"`
	BoundUserAgent string `json:"bound_user_agent,omitempty"`

	// GraceUntil is set when the grant exhausts its uses. The record lingers
	// until this deadline so a redundant retry from the same client gets a
	// precise "exhausted" answer instead of "not found", then the sweeper
	// collects it.
	GraceUntil time.Time `json:"grace_until,omitzero"`
}

// Exhausted reports whether the grant has no redemptions left.
func (g *DownloadGrant) Exhausted() bool {
	return g.UseCount >= g.MaxUses
}

// GrantToken wraps a parsed download token with convenience accessors.
//
// SignedString holds the compact serialized form (header.payload.signature)
// handed to the end user; TokenID and SubmissionID are cached copies of the
// "jti" and "sub" claims.
type GrantToken struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization; only the compact string form is
	// meaningful outside the server process.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// TokenID is the grant identifier extracted from the "jti" claim.
	TokenID string `json:"-"`

	// SubmissionID is extracted from the "sub" claim.
	SubmissionID string `json:"-"`
}

// ClaimIDs extracts the grant and submission identifiers from the token's
// "jti" and "sub" claims. Returns an error if either claim is missing or
// empty.
func (t *GrantToken) ClaimIDs() (tokenID, submissionID string, err error) {
	submissionID, err = t.GetSubject()
	if err != nil {
		return "", "", fmt.Errorf("error extracting submission ID from token: %w", err)
	}
	if t.RegisteredClaims.ID == "" || submissionID == "" {
		return "", "", fmt.Errorf("download token is missing jti or sub claim")
	}
	return t.RegisteredClaims.ID, submissionID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *GrantToken) String() string {
	return t.SignedString
}

// RequestContext carries the advisory client context of an issue or redeem
// call.
type RequestContext struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}
