// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/migrations"
)

const (
	execRetryAttempts = 3
	execRetryBackoff  = 50 * time.Millisecond
)

// DB wraps the evidence database connection together with the pieces that
// differ between the two supported engines: the goose dialect, the SQL
// placeholder format, and the driver error classifier.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens the evidence database described by cfg. The engine is
// selected by the DSN: a postgres:// or postgresql:// URI connects through
// pgx, anything else is treated as an SQLite file path.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// execWithRetry runs ExecContext and retries failures the engine's error
// classifier reports as transient (lost connection, deadlock rollback, locked
// SQLite file). Non-retryable errors return immediately.
func (db *DB) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		result sql.Result
		err    error
	)
	for attempt := 1; ; attempt++ {
		result, err = db.ExecContext(ctx, query, args...)
		if err == nil || attempt == execRetryAttempts || db.errorClassificator.Classify(err) == NonRetryable {
			return result, err
		}

		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "DB.execWithRetry").
			Int("attempt", attempt).
			Msg("retrying transient database error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(execRetryBackoff):
		}
	}
}
