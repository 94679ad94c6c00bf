// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/consentvault/consent-keeper/models"
)

// Query builders for the evidence database. All queries are built with
// squirrel so the same code serves both placeholder formats; the builder
// carried by [DB] decides between $N and ?.

var grantColumns = []string{
	"token_id",
	"submission_id",
	"issued_at",
	"expires_at",
	"max_uses",
	"use_count",
	"bound_ip",
	"bound_user_agent",
	"grace_until",
}

var bundleColumns = []string{
	"submission_id",
	"blob",
	"anchor_index",
	"anchor_hash",
	"anchor_prev_hash",
	"degraded",
	"created_at",
}

func buildInsertGrantQuery(b sq.StatementBuilderType, grant *models.DownloadGrant) (string, []any, error) {
	return b.Insert("download_grants").
		Columns(grantColumns...).
		Values(
			grant.TokenID,
			grant.SubmissionID,
			grant.IssuedAt,
			grant.ExpiresAt,
			grant.MaxUses,
			grant.UseCount,
			grant.BoundIP,
			grant.BoundUserAgent,
			nullableTime(grant.GraceUntil),
		).
		ToSql()
}

func buildSelectGrantQuery(b sq.StatementBuilderType, tokenID string) (string, []any, error) {
	return b.Select(grantColumns...).
		From("download_grants").
		Where(sq.Eq{"token_id": tokenID}).
		ToSql()
}

func buildUpdateGrantQuery(b sq.StatementBuilderType, grant *models.DownloadGrant) (string, []any, error) {
	return b.Update("download_grants").
		Set("use_count", grant.UseCount).
		Set("grace_until", nullableTime(grant.GraceUntil)).
		Where(sq.Eq{"token_id": grant.TokenID}).
		ToSql()
}

func buildDeleteGrantQuery(b sq.StatementBuilderType, tokenID string) (string, []any, error) {
	return b.Delete("download_grants").
		Where(sq.Eq{"token_id": tokenID}).
		ToSql()
}

func buildDeleteGrantsBySubmissionQuery(b sq.StatementBuilderType, submissionID string) (string, []any, error) {
	return b.Delete("download_grants").
		Where(sq.Eq{"submission_id": submissionID}).
		ToSql()
}

// buildDeleteExpiredGrantsQuery collects grants past their expiry plus
// exhausted grants past their grace deadline. NULL grace_until never matches
// the Lt predicate, so unexhausted grants are untouched by the second arm.
func buildDeleteExpiredGrantsQuery(b sq.StatementBuilderType, now time.Time) (string, []any, error) {
	return b.Delete("download_grants").
		Where(sq.Or{
			sq.Lt{"expires_at": now},
			sq.And{
				sq.Expr("use_count >= max_uses"),
				sq.Lt{"grace_until": now},
			},
		}).
		ToSql()
}

func buildInsertBundleQuery(b sq.StatementBuilderType, record *BundleRecord, blobJSON []byte) (string, []any, error) {
	return b.Insert("evidence_bundles").
		Columns(bundleColumns...).
		Values(
			record.SubmissionID,
			blobJSON,
			record.Anchor.Index,
			record.Anchor.Hash,
			record.Anchor.PrevHash,
			record.Degraded,
			record.CreatedAt,
		).
		ToSql()
}

func buildSelectBundleQuery(b sq.StatementBuilderType, submissionID string) (string, []any, error) {
	return b.Select(bundleColumns...).
		From("evidence_bundles").
		Where(sq.Eq{"submission_id": submissionID}).
		ToSql()
}

// nullableTime maps the zero time to NULL so "no grace deadline" is
// representable in SQL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
