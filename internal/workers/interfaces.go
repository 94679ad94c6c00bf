// Package workers provides the background maintenance loops of the
// application. It defines the Worker interface and a Workers aggregate that
// starts multiple workers in a unified way.
package workers

import (
	"context"
	"time"

	"github.com/consentvault/consent-keeper/models"
)

// Worker is the interface implemented by every background worker.
//
// Run starts the worker's loop and returns immediately; the loop stops when
// the given context is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// RetentionSweeper removes submissions whose retention window has elapsed.
type RetentionSweeper interface {
	CleanupExpired(ctx context.Context, now time.Time) (models.CleanupReport, error)
}

// GrantSweeper removes download grant records that can no longer be redeemed.
type GrantSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}
