// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

// grantRepository is the SQL-backed implementation of [GrantStorage], used
// when several instances must share redemption state through one database.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type grantRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewGrantRepository constructs a [GrantStorage] backed by the evidence
// database.
func NewGrantRepository(db *DB, logger *logger.Logger) GrantStorage {
	logger.Debug().Msg("creating grant repository")
	return &grantRepository{
		db:     db,
		logger: logger,
	}
}

func (r *grantRepository) Save(ctx context.Context, grant *models.DownloadGrant) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertGrantQuery(r.db.builder, grant)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.Save").Msg("failed to build insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.execWithRetry(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "grantRepository.Save").
			Str("token_id", grant.TokenID).
			Msg("failed to insert grant")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *grantRepository) Get(ctx context.Context, tokenID string) (*models.DownloadGrant, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectGrantQuery(r.db.builder, tokenID)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.Get").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		grant      models.DownloadGrant
		graceUntil sql.NullTime
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(
		&grant.TokenID,
		&grant.SubmissionID,
		&grant.IssuedAt,
		&grant.ExpiresAt,
		&grant.MaxUses,
		&grant.UseCount,
		&grant.BoundIP,
		&grant.BoundUserAgent,
		&graceUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGrantNotFound, tokenID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "grantRepository.Get").
			Str("token_id", tokenID).
			Msg("failed to scan grant")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if graceUntil.Valid {
		grant.GraceUntil = graceUntil.Time
	}

	return &grant, nil
}

func (r *grantRepository) Update(ctx context.Context, grant *models.DownloadGrant) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateGrantQuery(r.db.builder, grant)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.Update").Msg("failed to build update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "grantRepository.Update").
			Str("token_id", grant.TokenID).
			Msg("failed to update grant")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %s", ErrGrantNotFound, grant.TokenID)
	}

	return nil
}

func (r *grantRepository) Delete(ctx context.Context, tokenID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteGrantQuery(r.db.builder, tokenID)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.Delete").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.execWithRetry(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "grantRepository.Delete").
			Str("token_id", tokenID).
			Msg("failed to delete grant")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *grantRepository) DeleteBySubmission(ctx context.Context, submissionID string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteGrantsBySubmissionQuery(r.db.builder, submissionID)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.DeleteBySubmission").Msg("failed to build delete query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "grantRepository.DeleteBySubmission").
			Str("submission_id", submissionID).
			Msg("failed to delete grants for submission")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, _ := result.RowsAffected()
	return int(affected), nil
}

func (r *grantRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteExpiredGrantsQuery(r.db.builder, now)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.DeleteExpired").Msg("failed to build delete query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.execWithRetry(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "grantRepository.DeleteExpired").Msg("failed to delete expired grants")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, _ := result.RowsAffected()
	return int(affected), nil
}
