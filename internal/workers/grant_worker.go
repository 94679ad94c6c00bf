// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package workers

import (
	"context"
	"time"

	"github.com/consentvault/consent-keeper/internal/logger"
)

// GrantWorker periodically removes download grant records that are expired
// or exhausted past their grace deadline.
type GrantWorker struct {
	sweeper  GrantSweeper
	interval time.Duration

	logger *logger.Logger
}

// NewGrantWorker constructs a GrantWorker sweeping at the given interval.
func NewGrantWorker(sweeper GrantSweeper, interval time.Duration, logger *logger.Logger) *GrantWorker {
	return &GrantWorker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run implements [Worker].
func (w *GrantWorker) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info().
			Str("func", "GrantWorker.Run").
			Dur("interval", w.interval).
			Msg("grant worker started")

		for {
			select {
			case <-ctx.Done():
				w.logger.Info().
					Str("func", "GrantWorker.Run").
					Msg("grant worker stopped")
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

func (w *GrantWorker) sweep(ctx context.Context) {
	removed, err := w.sweeper.Sweep(ctx, time.Now())
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("func", "GrantWorker.sweep").
			Msg("grant sweep failed")
		return
	}

	if removed > 0 {
		w.logger.Info().
			Str("func", "GrantWorker.sweep").
			Int("removed", removed).
			Msg("grant sweep finished")
	}
}
