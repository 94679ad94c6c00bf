// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/utils"
	"github.com/consentvault/consent-keeper/models"
)

// stampRequest is the wire form of a timestamp request.
type stampRequest struct {
	Digest string `json:"digest"`
}

// stampResponse is the wire form of the authority's answer.
type stampResponse struct {
	Time      time.Time `json:"time"`
	Proof     string    `json:"proof"`
	Authority string    `json:"authority"`
}

type httpTimestampAuthority struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPTimestampAuthority constructs an HTTP implementation of
// [TimestampAuthority]. It normalises and validates the base URL from cfg.URL
// and configures the underlying HTTP client with the resolved base URL and a
// hard request timeout, so a slow authority can never stall consent intake.
//
// Returns an error if cfg.URL is empty or cannot be parsed as a valid URL.
func NewHTTPTimestampAuthority(cfg config.Timestamp, log *logger.Logger) (TimestampAuthority, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp authority address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &httpTimestampAuthority{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Stamp implements [TimestampAuthority]. It POSTs the digest to /api/stamp
// and returns the authority's signed timestamp. Any transport failure or
// non-2xx answer is wrapped in [ErrTimestampUnavailable].
func (h *httpTimestampAuthority) Stamp(ctx context.Context, digest string) (models.TrustedTimestamp, error) {
	log := logger.FromContext(ctx)

	request := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(stampRequest{Digest: digest})

	// propagate the request trace so authority logs correlate with ours
	if traceID, found := utils.GetTraceIDFromContext(ctx); found {
		request.SetHeader("X-Trace-ID", traceID)
	}

	var result stampResponse
	resp, err := request.
		SetResult(&result).
		Post("/api/stamp")
	if err != nil {
		log.Warn().
			Err(err).
			Str("func", "httpTimestampAuthority.Stamp").
			Msg("timestamp authority request failed")
		return models.TrustedTimestamp{}, fmt.Errorf("%w: %w", ErrTimestampUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().
			Err(err).
			Str("func", "httpTimestampAuthority.Stamp").
			Int("status", resp.StatusCode()).
			Msg("timestamp authority rejected request")
		return models.TrustedTimestamp{}, err
	}

	if result.Proof == "" || result.Time.IsZero() {
		return models.TrustedTimestamp{}, fmt.Errorf("%w: incomplete stamp response", ErrTimestampUnavailable)
	}

	return models.TrustedTimestamp{
		Time:       result.Time,
		ProofToken: result.Proof,
		Authority:  result.Authority,
		Degraded:   false,
	}, nil
}
