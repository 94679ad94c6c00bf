// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/consentvault/consent-keeper/internal/adapter"
	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

// otpService is the concrete implementation of [OTPService].
//
// Codes are numeric, drawn from the OS CSPRNG, and stored only as an
// HMAC-SHA256 under the configured hash key. Verification compares digests in
// constant time. mu serializes verification per process so the attempt
// counter cannot be raced past its limit.
type otpService struct {
	challenges store.ChallengeStorage
	notifier   adapter.Notifier
	uuid       *utils.UUIDGenerator

	// hashKey is the HMAC secret the code digests are computed under.
	hashKey string

	codeLength  int
	maxAttempts int
	ttl         time.Duration

	mu sync.Mutex

	logger *logger.Logger
}

// NewOTPService constructs an [OTPService].
func NewOTPService(challenges store.ChallengeStorage, notifier adapter.Notifier, appCfg config.App, otpCfg config.OTP, logger *logger.Logger) OTPService {
	return &otpService{
		challenges:  challenges,
		notifier:    notifier,
		uuid:        utils.NewUUIDGenerator(),
		hashKey:     appCfg.MasterKey,
		codeLength:  otpCfg.CodeLength,
		maxAttempts: otpCfg.MaxAttempts,
		ttl:         otpCfg.TTL,
		logger:      logger,
	}
}

// Request implements [OTPService]. Issuing a new challenge replaces any live
// one for the recipient, so a stale undelivered code can never be guessed in
// parallel with a fresh one.
func (o *otpService) Request(ctx context.Context, recipient string) (*models.OTPChallenge, error) {
	log := logger.FromContext(ctx)

	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrValidation)
	}

	code, err := o.generateCode()
	if err != nil {
		return nil, fmt.Errorf("error generating verification code: %w", err)
	}

	now := time.Now().UTC()
	challenge := &models.OTPChallenge{
		ID:          o.uuid.Generate(),
		Recipient:   recipient,
		CodeHash:    utils.HashBytes([]byte(code), o.hashKey),
		MaxAttempts: o.maxAttempts,
		CreatedAt:   now,
		ExpiresAt:   now.Add(o.ttl),
	}

	if err := o.challenges.Put(ctx, challenge); err != nil {
		return nil, fmt.Errorf("error storing challenge: %w", err)
	}

	if err := o.notifier.Send(ctx, recipient, code); err != nil {
		// withdraw the challenge; a code that never arrived must not sit
		// guessable in storage
		_ = o.challenges.DeleteByRecipient(ctx, recipient)

		log.Err(err).
			Str("func", "otpService.Request").
			Str("recipient", recipient).
			Msg("failed to deliver verification code")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	log.Info().
		Str("func", "otpService.Request").
		Str("challenge_id", challenge.ID).
		Time("expires_at", challenge.ExpiresAt).
		Msg("verification challenge issued")

	return challenge, nil
}

// Verify implements [OTPService]. The attempt counter moves on wrong codes
// only; expiry and consumption remove the challenge entirely.
func (o *otpService) Verify(ctx context.Context, recipient, code string) (*models.VerificationRecord, int, error) {
	log := logger.FromContext(ctx)

	if recipient == "" || code == "" {
		return nil, 0, fmt.Errorf("%w: recipient and code are required", ErrValidation)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	challenge, err := o.challenges.GetByRecipient(ctx, recipient)
	if errors.Is(err, store.ErrChallengeNotFound) {
		return nil, 0, fmt.Errorf("%w: no live challenge for recipient", ErrNotFound)
	}
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	if challenge.Expired(now) {
		_ = o.challenges.DeleteByRecipient(ctx, recipient)
		return nil, 0, fmt.Errorf("%w: challenge %s", ErrExpired, challenge.ID)
	}

	submitted := utils.HashBytes([]byte(code), o.hashKey)
	if !hmac.Equal(submitted, challenge.CodeHash) {
		challenge.Attempts++
		attemptsLeft := challenge.MaxAttempts - challenge.Attempts

		if attemptsLeft <= 0 {
			_ = o.challenges.DeleteByRecipient(ctx, recipient)

			log.Warn().
				Str("func", "otpService.Verify").
				Str("challenge_id", challenge.ID).
				Msg("challenge invalidated after exhausting attempts")
			return nil, 0, fmt.Errorf("%w: challenge %s", ErrAttemptsExceeded, challenge.ID)
		}

		if err := o.challenges.Update(ctx, challenge); err != nil {
			return nil, 0, fmt.Errorf("error recording failed attempt: %w", err)
		}

		return nil, attemptsLeft, fmt.Errorf("%w: %d attempts left", ErrCodeMismatch, attemptsLeft)
	}

	// consumed on first success
	if err := o.challenges.DeleteByRecipient(ctx, recipient); err != nil {
		return nil, 0, fmt.Errorf("error consuming challenge: %w", err)
	}

	log.Info().
		Str("func", "otpService.Verify").
		Str("challenge_id", challenge.ID).
		Msg("recipient verified")

	return &models.VerificationRecord{
		ChallengeID: challenge.ID,
		Recipient:   recipient,
		VerifiedAt:  now,
	}, 0, nil
}

// generateCode draws a uniformly random numeric code of the configured
// length, left-padded with zeros.
func (o *otpService) generateCode() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(o.codeLength)), nil)

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", o.codeLength, n), nil
}
