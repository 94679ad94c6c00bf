// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// ConsentRequest is the inbound payload of POST /api/consent.
type ConsentRequest struct {
	// Form holds the consent form fields. Every field is encrypted
	// individually before it touches disk.
	Form map[string]string `json:"form"`

	// Artifact is the rendered consent document, base64-encoded by
	// encoding/json.
	Artifact []byte `json:"artifact"`

	// DeviceFingerprint is optional caller-collected device evidence.
	DeviceFingerprint map[string]string `json:"device_fingerprint,omitempty"`

	// OTPVerification is the record returned by POST /api/otp/verify, if the
	// caller completed identity verification.
	OTPVerification *VerificationRecord `json:"otp_verification,omitempty"`
}

// ConsentResponse is returned after a submission has been stored, anchored
// and granted.
type ConsentResponse struct {
	SubmissionID  string           `json:"submission_id"`
	ExpiresAt     time.Time        `json:"expires_at"`
	DownloadToken string           `json:"download_token"`
	TokenExpires  time.Time        `json:"token_expires_at"`
	Anchor        ChainAnchor      `json:"anchor"`
	Timestamp     TrustedTimestamp `json:"timestamp"`
	NoticeVersion string           `json:"notice_version"`
}

// OTPRequest is the inbound payload of POST /api/otp/request.
type OTPRequest struct {
	Recipient string `json:"recipient"`
}

// OTPRequestResponse acknowledges an issued challenge. The code itself is
// never part of the response.
type OTPRequestResponse struct {
	ChallengeID string    `json:"challenge_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// OTPVerifyRequest is the inbound payload of POST /api/otp/verify.
type OTPVerifyRequest struct {
	Recipient string `json:"recipient"`
	Code      string `json:"code"`
}

// OTPVerifyResponse reports a verification outcome. On failure Reason holds
// the precise cause and AttemptsLeft how many tries remain.
type OTPVerifyResponse struct {
	Verified     bool                `json:"verified"`
	Record       *VerificationRecord `json:"record,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	AttemptsLeft int                 `json:"attempts_left,omitempty"`
}

// ErrorResponse is the uniform error body of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
