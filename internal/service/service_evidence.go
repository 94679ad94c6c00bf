// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/consentvault/consent-keeper/internal/adapter"
	"github.com/consentvault/consent-keeper/internal/chain"
	"github.com/consentvault/consent-keeper/internal/crypto"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/models"
)

// evidenceService is the concrete implementation of [EvidenceService].
//
// The timestamp authority is optional: when nil or unreachable, bundles get a
// local clock reading explicitly marked degraded. Everything else about
// assembly is mandatory — a bundle that cannot be anchored or persisted is an
// error, not a degraded success.
type evidenceService struct {
	bundles   store.BundleStorage
	chain     *chain.Chain
	tsa       adapter.TimestampAuthority
	notice    adapter.NoticeProvider
	encryptor crypto.Encryptor

	logger *logger.Logger
}

// NewEvidenceService constructs an [EvidenceService]. tsa may be nil when no
// timestamp authority is configured.
func NewEvidenceService(bundles store.BundleStorage, evidenceChain *chain.Chain, tsa adapter.TimestampAuthority, notice adapter.NoticeProvider, encryptor crypto.Encryptor, logger *logger.Logger) EvidenceService {
	return &evidenceService{
		bundles:   bundles,
		chain:     evidenceChain,
		tsa:       tsa,
		notice:    notice,
		encryptor: encryptor,
		logger:    logger,
	}
}

// Assemble implements [EvidenceService].
func (e *evidenceService) Assemble(ctx context.Context, sub *models.Submission, fingerprint map[string]string, otp *models.VerificationRecord) (*models.EvidenceBundle, error) {
	log := logger.FromContext(ctx)

	if sub == nil || sub.ID == "" || sub.ContentHash == "" {
		return nil, fmt.Errorf("%w: submission with ID and content hash is required", ErrValidation)
	}

	notice := e.notice.Current()
	timestamp := e.obtainTimestamp(ctx, sub.ContentHash)

	anchorData := map[string]any{
		"type":           "consent",
		"submission_id":  sub.ID,
		"artifact_hash":  sub.ContentHash,
		"notice_version": notice.Version,
		"otp_verified":   otp != nil,
		"timestamp":      timestamp.Time.Format(time.RFC3339Nano),
	}

	entry, err := e.chain.Append(ctx, anchorData)
	if err != nil {
		return nil, fmt.Errorf("error anchoring evidence in chain: %w", err)
	}

	bundle := &models.EvidenceBundle{
		SubmissionID:      sub.ID,
		CreatedAt:         time.Now().UTC(),
		ArtifactHash:      sub.ContentHash,
		Notice:            notice,
		OTPVerification:   otp,
		DeviceFingerprint: fingerprint,
		Timestamp:         timestamp,
		Anchor: models.ChainAnchor{
			Index:    entry.Index,
			Hash:     entry.Hash,
			PrevHash: entry.PrevHash,
		},
	}

	raw, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("error marshalling evidence bundle: %w", err)
	}

	blob, err := e.encryptor.Encrypt(string(raw), "evidence-bundle:"+sub.ID)
	if err != nil {
		return nil, fmt.Errorf("error encrypting evidence bundle: %w", err)
	}

	record := &store.BundleRecord{
		SubmissionID: sub.ID,
		Blob:         blob,
		Anchor:       bundle.Anchor,
		Degraded:     timestamp.Degraded,
		CreatedAt:    bundle.CreatedAt,
	}
	if err := e.bundles.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("error persisting evidence bundle: %w", err)
	}

	log.Info().
		Str("func", "evidenceService.Assemble").
		Str("submission_id", sub.ID).
		Int64("anchor_index", entry.Index).
		Bool("degraded_timestamp", timestamp.Degraded).
		Msg("evidence bundle assembled")

	return bundle, nil
}

// obtainTimestamp asks the authority for a stamp over the digest and falls
// back to an explicitly degraded local reading when it cannot answer.
func (e *evidenceService) obtainTimestamp(ctx context.Context, digest string) models.TrustedTimestamp {
	log := logger.FromContext(ctx)

	if e.tsa == nil {
		return models.TrustedTimestamp{Time: time.Now().UTC(), Degraded: true}
	}

	timestamp, err := e.tsa.Stamp(ctx, digest)
	if err != nil {
		log.Warn().
			Err(err).
			Str("func", "evidenceService.obtainTimestamp").
			Msg("timestamp authority unavailable, recording degraded local timestamp")
		return models.TrustedTimestamp{Time: time.Now().UTC(), Degraded: true}
	}

	return timestamp
}

// Get implements [EvidenceService].
func (e *evidenceService) Get(ctx context.Context, submissionID string) (*models.EvidenceBundle, error) {
	log := logger.FromContext(ctx)

	record, err := e.bundles.Get(ctx, submissionID)
	if errors.Is(err, store.ErrBundleNotFound) {
		return nil, fmt.Errorf("%w: no bundle for submission %s", ErrNotFound, submissionID)
	}
	if err != nil {
		return nil, err
	}

	raw, err := e.encryptor.Decrypt(record.Blob)
	if err != nil {
		log.Error().
			Err(err).
			Str("func", "evidenceService.Get").
			Str("submission_id", submissionID).
			Msg("evidence bundle failed authenticated decryption")
		return nil, fmt.Errorf("%w: evidence bundle: %w", ErrIntegrity, err)
	}

	var bundle models.EvidenceBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, fmt.Errorf("%w: evidence bundle is unparsable: %w", ErrIntegrity, err)
	}

	return &bundle, nil
}

// VerifyChain implements [EvidenceService].
func (e *evidenceService) VerifyChain(ctx context.Context, fromIndex int64) (models.ChainVerification, error) {
	result, err := e.chain.Verify(ctx, fromIndex)
	if err != nil {
		return models.ChainVerification{}, fmt.Errorf("error verifying chain: %w", err)
	}

	return result, nil
}
