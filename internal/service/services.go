// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import (
	"github.com/consentvault/consent-keeper/internal/adapter"
	"github.com/consentvault/consent-keeper/internal/chain"
	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/crypto"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/store"
)

// Services aggregates the business services of the application.
type Services struct {
	SubmissionService SubmissionService
	TokenService      TokenService
	OTPService        OTPService
	EvidenceService   EvidenceService
}

// Dependencies carries the non-storage collaborators of the service layer.
type Dependencies struct {
	Encryptor    crypto.Encryptor
	Chain        *chain.Chain
	Timestamper  adapter.TimestampAuthority
	Notifier     adapter.Notifier
	NoticeSource adapter.NoticeProvider
}

// NewServices wires the full service layer.
func NewServices(storages store.Storages, deps Dependencies, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		SubmissionService: NewSubmissionService(storages.Submissions, storages.Grants, deps.Encryptor, cfg.Storage, logger),
		TokenService:      NewTokenService(storages.Grants, cfg.App, cfg.Grants, logger),
		OTPService:        NewOTPService(storages.Challenges, deps.Notifier, cfg.App, cfg.OTP, logger),
		EvidenceService:   NewEvidenceService(storages.Bundles, deps.Chain, deps.Timestamper, deps.NoticeSource, deps.Encryptor, logger),
	}
}
