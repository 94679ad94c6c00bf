// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/consentvault/consent-keeper/models"
)

// memoryChallengeStorage keeps live OTP challenges keyed by recipient.
// Challenges are inherently ephemeral (minutes of life, one per recipient) so
// they are never persisted to disk.
type memoryChallengeStorage struct {
	mu         sync.RWMutex
	challenges map[string]models.OTPChallenge
}

// NewMemoryChallengeStorage constructs an empty challenge table.
func NewMemoryChallengeStorage() ChallengeStorage {
	return &memoryChallengeStorage{challenges: make(map[string]models.OTPChallenge)}
}

// Put replaces any existing challenge for the recipient. Re-requesting a code
// invalidates the previous one.
func (m *memoryChallengeStorage) Put(ctx context.Context, challenge *models.OTPChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges[challenge.Recipient] = *challenge
	return nil
}

func (m *memoryChallengeStorage) GetByRecipient(ctx context.Context, recipient string) (*models.OTPChallenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	challenge, ok := m.challenges[recipient]
	if !ok {
		return nil, fmt.Errorf("%w: recipient has no live challenge", ErrChallengeNotFound)
	}

	copied := challenge
	return &copied, nil
}

func (m *memoryChallengeStorage) Update(ctx context.Context, challenge *models.OTPChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.challenges[challenge.Recipient]; !ok {
		return fmt.Errorf("%w: recipient has no live challenge", ErrChallengeNotFound)
	}

	m.challenges[challenge.Recipient] = *challenge
	return nil
}

func (m *memoryChallengeStorage) DeleteByRecipient(ctx context.Context, recipient string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.challenges, recipient)
	return nil
}
