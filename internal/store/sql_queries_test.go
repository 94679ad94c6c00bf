// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/models"
)

var (
	pgBuilder     = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

func Test_buildSelectGrantQuery_SQLContainsParts(t *testing.T) {
	query, args, err := buildSelectGrantQuery(pgBuilder, "tok-1")
	require.NoError(t, err)

	require.Len(t, args, 1)
	require.Equal(t, "tok-1", args[0])

	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from download_grants")
	require.Contains(t, q, "where")
	require.Contains(t, q, "token_id")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")

	// key columns present
	require.Contains(t, q, "submission_id")
	require.Contains(t, q, "use_count")
	require.Contains(t, q, "grace_until")
}

func Test_buildSelectGrantQuery_SQLitePlaceholders(t *testing.T) {
	query, _, err := buildSelectGrantQuery(sqliteBuilder, "tok-1")
	require.NoError(t, err)

	assert.Contains(t, query, "?")
	assert.NotContains(t, query, "$1")
}

func Test_buildInsertGrantQuery_AllColumnsBound(t *testing.T) {
	grant := &models.DownloadGrant{
		TokenID:      "tok-1",
		SubmissionID: "sub-1",
		IssuedAt:     time.Now(),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		MaxUses:      3,
	}

	query, args, err := buildInsertGrantQuery(pgBuilder, grant)
	require.NoError(t, err)

	require.Len(t, args, len(grantColumns))

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into download_grants")
	for _, col := range grantColumns {
		require.Contains(t, q, col)
	}

	// zero grace deadline must bind as NULL, not as the zero time
	assert.Nil(t, args[len(args)-1])
}

func Test_buildUpdateGrantQuery_TouchesOnlyMutableColumns(t *testing.T) {
	grant := &models.DownloadGrant{TokenID: "tok-1", UseCount: 2, GraceUntil: time.Now()}

	query, args, err := buildUpdateGrantQuery(pgBuilder, grant)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update download_grants")
	require.Contains(t, q, "use_count")
	require.Contains(t, q, "grace_until")
	require.Contains(t, q, "where")
	assert.NotContains(t, q, "expires_at")
	assert.NotContains(t, q, "max_uses =")

	require.Len(t, args, 3)
}

func Test_buildDeleteExpiredGrantsQuery_BothArms(t *testing.T) {
	now := time.Now()

	query, args, err := buildDeleteExpiredGrantsQuery(pgBuilder, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "delete from download_grants")
	require.Contains(t, q, "expires_at")
	require.Contains(t, q, "use_count >= max_uses")
	require.Contains(t, q, "grace_until")
	require.Contains(t, q, " or ")

	require.Len(t, args, 2)
	assert.Equal(t, now, args[0])
	assert.Equal(t, now, args[1])
}

func Test_buildInsertBundleQuery_AllColumnsBound(t *testing.T) {
	record := &BundleRecord{
		SubmissionID: "sub-1",
		Anchor:       models.ChainAnchor{Index: 7, Hash: "h7", PrevHash: "h6"},
		Degraded:     true,
		CreatedAt:    time.Now(),
	}

	query, args, err := buildInsertBundleQuery(pgBuilder, record, []byte(`{"ciphertext":"x"}`))
	require.NoError(t, err)

	require.Len(t, args, len(bundleColumns))

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into evidence_bundles")
	for _, col := range bundleColumns {
		require.Contains(t, q, col)
	}
}

func Test_buildSelectBundleQuery_SQLContainsParts(t *testing.T) {
	query, args, err := buildSelectBundleQuery(pgBuilder, "sub-1")
	require.NoError(t, err)

	require.Len(t, args, 1)
	require.Equal(t, "sub-1", args[0])

	q := strings.ToLower(query)
	require.Contains(t, q, "from evidence_bundles")
	require.Contains(t, q, "anchor_index")
	require.Contains(t, q, "anchor_hash")
	require.Contains(t, q, "degraded")
}
