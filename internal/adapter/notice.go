// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package adapter

import (
	"fmt"
	"time"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/models"
)

// staticNoticeProvider serves the single notice version named in the
// configuration. Deployments that manage notices in an external registry
// implement [NoticeProvider] against that registry instead.
type staticNoticeProvider struct {
	notice models.NoticeVersion
}

// NewStaticNoticeProvider constructs a [NoticeProvider] from configuration.
// The effective date must be RFC 3339; version and content hash must be
// non-empty, since a bundle without the exact notice text reference has no
// evidentiary value.
func NewStaticNoticeProvider(cfg config.Notice) (NoticeProvider, error) {
	if cfg.Version == "" || cfg.ContentHash == "" {
		return nil, fmt.Errorf("notice version and content hash are required")
	}

	effective, err := time.Parse(time.RFC3339, cfg.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("invalid notice effective date: %w", err)
	}

	return &staticNoticeProvider{
		notice: models.NoticeVersion{
			Version:       cfg.Version,
			ContentHash:   cfg.ContentHash,
			EffectiveDate: effective,
		},
	}, nil
}

// Current implements [NoticeProvider].
func (p *staticNoticeProvider) Current() models.NoticeVersion {
	return p.notice
}
