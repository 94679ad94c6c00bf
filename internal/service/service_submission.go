// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/crypto"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

// artifactContext is the encryption context label of the artifact unit.
// Form fields use "form:<field>" so no two blobs of a submission are ever
// interchangeable.
const artifactContext = "artifact"

// submissionService is the concrete implementation of [SubmissionService].
type submissionService struct {
	storage   store.SubmissionStorage
	grants    store.GrantStorage
	encryptor crypto.Encryptor
	uuid      *utils.UUIDGenerator

	retentionDays int

	logger *logger.Logger
}

// NewSubmissionService constructs a [SubmissionService].
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewSubmissionService(storage store.SubmissionStorage, grants store.GrantStorage, encryptor crypto.Encryptor, cfg config.Storage, logger *logger.Logger) SubmissionService {
	return &submissionService{
		storage:       storage,
		grants:        grants,
		encryptor:     encryptor,
		uuid:          utils.NewUUIDGenerator(),
		retentionDays: cfg.RetentionDays,
		logger:        logger,
	}
}

// Store implements [SubmissionService]. Every form field is encrypted under
// its own context label and the artifact under its own, so the blobs of one
// submission cannot be swapped for each other without failing decryption.
func (s *submissionService) Store(ctx context.Context, req *models.ConsentRequest) (*models.Submission, error) {
	log := logger.FromContext(ctx)

	if req == nil || len(req.Form) == 0 || len(req.Artifact) == 0 {
		return nil, fmt.Errorf("%w: form and artifact are required", ErrValidation)
	}

	id := s.uuid.Generate()
	now := time.Now().UTC()
	contentHash := sha256.Sum256(req.Artifact)

	encryptedForm := make(map[string]models.EncryptedBlob, len(req.Form))
	for field, value := range req.Form {
		if field == "" {
			return nil, fmt.Errorf("%w: form field name is empty", ErrValidation)
		}

		blob, err := s.encryptor.Encrypt(value, "form:"+field)
		if err != nil {
			log.Err(err).
				Str("func", "submissionService.Store").
				Str("field", field).
				Msg("failed to encrypt form field")
			return nil, fmt.Errorf("error encrypting form field: %w", err)
		}
		encryptedForm[field] = blob
	}

	encryptedArtifact, err := s.encryptor.Encrypt(string(req.Artifact), artifactContext)
	if err != nil {
		log.Err(err).Str("func", "submissionService.Store").Msg("failed to encrypt artifact")
		return nil, fmt.Errorf("error encrypting artifact: %w", err)
	}

	sub := &models.Submission{
		SubmissionMeta: models.SubmissionMeta{
			ID:          id,
			CreatedAt:   now,
			SizeBytes:   int64(len(req.Artifact)),
			ContentHash: hex.EncodeToString(contentHash[:]),
			Retention: models.RetentionInfo{
				CreatedAt:     now,
				ExpiresAt:     now.AddDate(0, 0, s.retentionDays),
				RetentionDays: s.retentionDays,
			},
		},
		EncryptedForm:     encryptedForm,
		EncryptedArtifact: encryptedArtifact,
	}

	if err := s.storage.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("error persisting submission: %w", err)
	}

	log.Info().
		Str("func", "submissionService.Store").
		Str("submission_id", id).
		Int("form_fields", len(encryptedForm)).
		Int64("size_bytes", sub.SizeBytes).
		Msg("submission stored")

	return sub, nil
}

// GetMeta implements [SubmissionService].
func (s *submissionService) GetMeta(ctx context.Context, id string) (models.SubmissionMeta, error) {
	meta, err := s.storage.GetMeta(ctx, id)
	if errors.Is(err, store.ErrSubmissionNotFound) {
		return models.SubmissionMeta{}, fmt.Errorf("%w: submission %s", ErrNotFound, id)
	}
	if err != nil {
		return models.SubmissionMeta{}, err
	}

	return meta, nil
}

// Retrieve implements [SubmissionService]. A submission past its retention
// window is reported expired even if the sweep has not collected it yet;
// retention is a promise, not a best effort.
func (s *submissionService) Retrieve(ctx context.Context, id string) (*models.DecryptedSubmission, error) {
	log := logger.FromContext(ctx)

	meta, err := s.GetMeta(ctx, id)
	if err != nil {
		return nil, err
	}

	if time.Now().After(meta.Retention.ExpiresAt) {
		return nil, fmt.Errorf("%w: submission %s is past retention", ErrExpired, id)
	}

	encryptedForm, err := s.storage.GetForm(ctx, id)
	if err != nil {
		return nil, s.mapUnitError(id, err)
	}

	form := make(map[string]string, len(encryptedForm))
	for field, blob := range encryptedForm {
		value, decErr := s.encryptor.Decrypt(blob)
		if decErr != nil {
			log.Error().
				Err(decErr).
				Str("func", "submissionService.Retrieve").
				Str("submission_id", id).
				Str("field", field).
				Msg("form field failed authenticated decryption")
			return nil, fmt.Errorf("%w: form field %q: %w", ErrIntegrity, field, decErr)
		}
		form[field] = value
	}

	encryptedArtifact, err := s.storage.GetArtifact(ctx, id)
	if err != nil {
		return nil, s.mapUnitError(id, err)
	}

	artifact, err := s.encryptor.Decrypt(encryptedArtifact)
	if err != nil {
		log.Error().
			Err(err).
			Str("func", "submissionService.Retrieve").
			Str("submission_id", id).
			Msg("artifact failed authenticated decryption")
		return nil, fmt.Errorf("%w: artifact: %w", ErrIntegrity, err)
	}

	// verify the artifact against the recorded digest
	digest := sha256.Sum256([]byte(artifact))
	if hex.EncodeToString(digest[:]) != meta.ContentHash {
		return nil, fmt.Errorf("%w: artifact digest mismatch", ErrIntegrity)
	}

	return &models.DecryptedSubmission{
		Meta:     meta,
		Form:     form,
		Artifact: []byte(artifact),
	}, nil
}

// Delete implements [SubmissionService].
func (s *submissionService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting submission: %w", err)
	}

	revoked, err := s.grants.DeleteBySubmission(ctx, id)
	if err != nil {
		return fmt.Errorf("error revoking grants of deleted submission: %w", err)
	}

	if revoked > 0 {
		log.Info().
			Str("func", "submissionService.Delete").
			Str("submission_id", id).
			Int("revoked_grants", revoked).
			Msg("revoked grants of deleted submission")
	}

	return nil
}

// CleanupExpired implements [SubmissionService].
func (s *submissionService) CleanupExpired(ctx context.Context, now time.Time) (models.CleanupReport, error) {
	log := logger.FromContext(ctx)

	metas, err := s.storage.ListMeta(ctx)
	if err != nil {
		return models.CleanupReport{}, fmt.Errorf("error listing submissions for cleanup: %w", err)
	}

	report := models.CleanupReport{Scanned: len(metas)}
	for _, meta := range metas {
		if !now.After(meta.Retention.ExpiresAt) {
			continue
		}

		if err := s.Delete(ctx, meta.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", meta.ID, err))
			continue
		}
		report.Deleted++
	}

	log.Info().
		Str("func", "submissionService.CleanupExpired").
		Int("scanned", report.Scanned).
		Int("deleted", report.Deleted).
		Int("errors", len(report.Errors)).
		Msg("retention sweep finished")

	return report, nil
}

func (s *submissionService) mapUnitError(id string, err error) error {
	if errors.Is(err, store.ErrSubmissionNotFound) {
		return fmt.Errorf("%w: submission %s", ErrNotFound, id)
	}
	if errors.Is(err, store.ErrCorruptedUnit) {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
