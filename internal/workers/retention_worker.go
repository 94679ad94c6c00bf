// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package workers

import (
	"context"
	"time"

	"github.com/consentvault/consent-keeper/internal/logger"
)

// RetentionWorker periodically removes submissions whose retention window
// has elapsed, together with their on-disk evidence units.
type RetentionWorker struct {
	sweeper  RetentionSweeper
	interval time.Duration

	logger *logger.Logger
}

// NewRetentionWorker constructs a RetentionWorker sweeping at the given
// interval.
func NewRetentionWorker(sweeper RetentionSweeper, interval time.Duration, logger *logger.Logger) *RetentionWorker {
	return &RetentionWorker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run implements [Worker].
func (w *RetentionWorker) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info().
			Str("func", "RetentionWorker.Run").
			Dur("interval", w.interval).
			Msg("retention worker started")

		for {
			select {
			case <-ctx.Done():
				w.logger.Info().
					Str("func", "RetentionWorker.Run").
					Msg("retention worker stopped")
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	report, err := w.sweeper.CleanupExpired(ctx, time.Now())
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("func", "RetentionWorker.sweep").
			Msg("retention sweep failed")
		return
	}

	level := w.logger.Info
	if len(report.Errors) > 0 {
		level = w.logger.Warn
	}
	level().
		Str("func", "RetentionWorker.sweep").
		Int("scanned", report.Scanned).
		Int("deleted", report.Deleted).
		Int("errors", len(report.Errors)).
		Msg("retention sweep finished")
}
