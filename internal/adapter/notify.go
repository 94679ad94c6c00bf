// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package adapter

import (
	"context"

	"github.com/consentvault/consent-keeper/internal/logger"
)

// logNotifier is the built-in [Notifier] that writes codes to the structured
// log instead of an external gateway. Suitable for development and for
// deployments where delivery happens out of band; production installs plug in
// an SMS or email gateway behind the same interface.
type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier constructs the log-backed [Notifier].
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

// Send implements [Notifier]. The code itself is logged at debug level only,
// so default log configurations never persist live codes.
func (n *logNotifier) Send(ctx context.Context, recipient, code string) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("func", "logNotifier.Send").
		Str("recipient", recipient).
		Msg("one-time code issued")
	log.Debug().
		Str("recipient", recipient).
		Str("code", code).
		Msg("one-time code value")

	return nil
}
