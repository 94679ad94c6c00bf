// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

// bundleRepository is the SQL-backed implementation of [BundleStorage]. The
// encrypted bundle blob is stored as JSON text; the anchor columns stay
// plaintext so audits can locate a bundle's chain entry without decrypting
// anything.
type bundleRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewBundleRepository constructs a [BundleStorage] backed by the evidence
// database.
func NewBundleRepository(db *DB, logger *logger.Logger) BundleStorage {
	logger.Debug().Msg("creating bundle repository")
	return &bundleRepository{
		db:     db,
		logger: logger,
	}
}

// Save persists one bundle per submission. The primary key on submission_id
// enforces create-once; a duplicate insert maps to [ErrBundleExists].
func (r *bundleRepository) Save(ctx context.Context, record *BundleRecord) error {
	log := logger.FromContext(ctx)

	blobJSON, err := json.Marshal(record.Blob)
	if err != nil {
		log.Err(err).Str("func", "bundleRepository.Save").Msg("failed to marshal bundle blob")
		return fmt.Errorf("error marshalling bundle blob: %w", err)
	}

	query, args, err := buildInsertBundleQuery(r.db.builder, record, blobJSON)
	if err != nil {
		log.Err(err).Str("func", "bundleRepository.Save").Msg("failed to build insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.execWithRetry(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrBundleExists, record.SubmissionID)
		}

		log.Err(err).
			Str("func", "bundleRepository.Save").
			Str("submission_id", record.SubmissionID).
			Msg("failed to insert bundle")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *bundleRepository) Get(ctx context.Context, submissionID string) (*BundleRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectBundleQuery(r.db.builder, submissionID)
	if err != nil {
		log.Err(err).Str("func", "bundleRepository.Get").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		record   BundleRecord
		blobJSON []byte
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(
		&record.SubmissionID,
		&blobJSON,
		&record.Anchor.Index,
		&record.Anchor.Hash,
		&record.Anchor.PrevHash,
		&record.Degraded,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, submissionID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "bundleRepository.Get").
			Str("submission_id", submissionID).
			Msg("failed to scan bundle")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var blob models.EncryptedBlob
	if err = json.Unmarshal(blobJSON, &blob); err != nil {
		return nil, fmt.Errorf("%w: bundle blob: %w", ErrCorruptedUnit, err)
	}
	record.Blob = blob

	return &record, nil
}

// isUniqueViolation recognises duplicate-key errors from both engines:
// pgerrcode 23505 for PostgreSQL, the UNIQUE constraint message for SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if postgresError(err) == pgerrcode.UniqueViolation {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
