// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/consentvault/consent-keeper/models"
)

// memoryGrantStorage is the in-process [GrantStorage] used by
// single-instance deployments. Grant records are small and short-lived, so a
// map under an RWMutex is sufficient; shared deployments use the SQL
// repository instead.
type memoryGrantStorage struct {
	mu     sync.RWMutex
	grants map[string]models.DownloadGrant
}

// NewMemoryGrantStorage constructs an empty in-process grant table.
func NewMemoryGrantStorage() GrantStorage {
	return &memoryGrantStorage{grants: make(map[string]models.DownloadGrant)}
}

func (m *memoryGrantStorage) Save(ctx context.Context, grant *models.DownloadGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.grants[grant.TokenID] = *grant
	return nil
}

func (m *memoryGrantStorage) Get(ctx context.Context, tokenID string) (*models.DownloadGrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grant, ok := m.grants[tokenID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGrantNotFound, tokenID)
	}

	copied := grant
	return &copied, nil
}

func (m *memoryGrantStorage) Update(ctx context.Context, grant *models.DownloadGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.grants[grant.TokenID]; !ok {
		return fmt.Errorf("%w: %s", ErrGrantNotFound, grant.TokenID)
	}

	m.grants[grant.TokenID] = *grant
	return nil
}

func (m *memoryGrantStorage) Delete(ctx context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.grants, tokenID)
	return nil
}

func (m *memoryGrantStorage) DeleteBySubmission(ctx context.Context, submissionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, grant := range m.grants {
		if grant.SubmissionID == submissionID {
			delete(m.grants, id)
			removed++
		}
	}

	return removed, nil
}

// DeleteExpired removes grants past their expiry and exhausted grants past
// their grace deadline.
func (m *memoryGrantStorage) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, grant := range m.grants {
		expired := now.After(grant.ExpiresAt)
		graceOver := grant.Exhausted() && !grant.GraceUntil.IsZero() && now.After(grant.GraceUntil)

		if expired || graceOver {
			delete(m.grants, id)
			removed++
		}
	}

	return removed, nil
}
