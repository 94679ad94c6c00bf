// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

// tokenService is the concrete implementation of [TokenService].
//
// Redemption is a read-modify-write on the grant record; mu serializes it so
// two concurrent redemptions of a one-use grant cannot both observe an unused
// record and both succeed.
type tokenService struct {
	grants store.GrantStorage
	uuid   *utils.UUIDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify download tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	tokenTTL       time.Duration
	maxUses        int
	exhaustedGrace time.Duration

	mu sync.Mutex

	logger *logger.Logger
}

// NewTokenService constructs a [TokenService] wired to the given grant
// storage and populated with token parameters from cfg.
func NewTokenService(grants store.GrantStorage, appCfg config.App, grantsCfg config.Grants, logger *logger.Logger) TokenService {
	return &tokenService{
		grants:         grants,
		uuid:           utils.NewUUIDGenerator(),
		tokenSignKey:   appCfg.TokenSignKey,
		tokenIssuer:    appCfg.TokenIssuer,
		tokenTTL:       grantsCfg.TTL,
		maxUses:        grantsCfg.MaxUses,
		exhaustedGrace: grantsCfg.ExhaustedGrace,
		logger:         logger,
	}
}

// Issue implements [TokenService].
func (t *tokenService) Issue(ctx context.Context, submissionID string, reqCtx models.RequestContext) (models.GrantToken, *models.DownloadGrant, error) {
	log := logger.FromContext(ctx)

	if submissionID == "" {
		return models.GrantToken{}, nil, fmt.Errorf("%w: submission ID is required", ErrValidation)
	}

	tokenID := t.uuid.Generate()
	token, err := utils.GenerateGrantToken(t.tokenIssuer, tokenID, submissionID, t.tokenTTL, t.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "tokenService.Issue").Msg("failed to sign download token")
		return models.GrantToken{}, nil, fmt.Errorf("error signing download token: %w", err)
	}

	now := time.Now().UTC()
	grant := &models.DownloadGrant{
		TokenID:        tokenID,
		SubmissionID:   submissionID,
		IssuedAt:       now,
		ExpiresAt:      now.Add(t.tokenTTL),
		MaxUses:        t.maxUses,
		BoundIP:        reqCtx.IP,
		BoundUserAgent: reqCtx.UserAgent,
	}

	if err := t.grants.Save(ctx, grant); err != nil {
		return models.GrantToken{}, nil, fmt.Errorf("error persisting grant record: %w", err)
	}

	log.Info().
		Str("func", "tokenService.Issue").
		Str("token_id", tokenID).
		Str("submission_id", submissionID).
		Time("expires_at", grant.ExpiresAt).
		Msg("download grant issued")

	return token, grant, nil
}

// Redeem implements [TokenService]. The signed token proves authenticity, the
// stored record decides usability: a valid signature over a revoked or
// exhausted grant buys nothing.
func (t *tokenService) Redeem(ctx context.Context, tokenString string, reqCtx models.RequestContext) (*models.DownloadGrant, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseGrantToken(tokenString, t.tokenSignKey, t.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: download token", ErrExpired)
		}
		log.Warn().Err(err).Str("func", "tokenService.Redeem").Msg("rejected unparsable download token")
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	grant, err := t.grants.Get(ctx, token.TokenID)
	if errors.Is(err, store.ErrGrantNotFound) {
		return nil, fmt.Errorf("%w: grant %s", ErrNotFound, token.TokenID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.After(grant.ExpiresAt) {
		return nil, fmt.Errorf("%w: download token", ErrExpired)
	}
	if grant.Exhausted() {
		return nil, fmt.Errorf("%w: grant %s", ErrGrantExhausted, grant.TokenID)
	}

	// advisory binding: a mismatch is recorded for audit, not rejected,
	// since NAT and proxy churn make client IPs unstable
	if grant.BoundIP != "" && reqCtx.IP != "" && grant.BoundIP != reqCtx.IP {
		log.Warn().
			Str("func", "tokenService.Redeem").
			Str("token_id", grant.TokenID).
			Str("bound_ip", grant.BoundIP).
			Str("request_ip", reqCtx.IP).
			Msg("redemption from different IP than issuance")
	}
	if grant.BoundUserAgent != "" && reqCtx.UserAgent != "" && grant.BoundUserAgent != reqCtx.UserAgent {
		log.Warn().
			Str("func", "tokenService.Redeem").
			Str("token_id", grant.TokenID).
			Msg("redemption from different user agent than issuance")
	}

	grant.UseCount++
	if grant.Exhausted() {
		grant.GraceUntil = now.Add(t.exhaustedGrace)
	}

	if err := t.grants.Update(ctx, grant); err != nil {
		return nil, fmt.Errorf("error updating grant record: %w", err)
	}

	log.Info().
		Str("func", "tokenService.Redeem").
		Str("token_id", grant.TokenID).
		Str("submission_id", grant.SubmissionID).
		Int("use_count", grant.UseCount).
		Int("max_uses", grant.MaxUses).
		Msg("download grant redeemed")

	return grant, nil
}

// Revoke implements [TokenService].
func (t *tokenService) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("%w: token ID is required", ErrValidation)
	}

	return t.grants.Delete(ctx, tokenID)
}

// RevokeBySubmission implements [TokenService].
func (t *tokenService) RevokeBySubmission(ctx context.Context, submissionID string) (int, error) {
	if submissionID == "" {
		return 0, fmt.Errorf("%w: submission ID is required", ErrValidation)
	}

	return t.grants.DeleteBySubmission(ctx, submissionID)
}

// Sweep implements [TokenService].
func (t *tokenService) Sweep(ctx context.Context, now time.Time) (int, error) {
	removed, err := t.grants.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("error sweeping grants: %w", err)
	}

	if removed > 0 {
		logger.FromContext(ctx).Info().
			Str("func", "tokenService.Sweep").
			Int("removed", removed).
			Msg("collected expired grant records")
	}

	return removed, nil
}
