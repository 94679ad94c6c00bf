// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/logger"
)

func newStampServer(t *testing.T, handler http.HandlerFunc) TimestampAuthority {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tsa, err := NewHTTPTimestampAuthority(config.Timestamp{URL: srv.URL, Timeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	return tsa
}

func TestHTTPTimestampAuthority_Stamp(t *testing.T) {
	stampedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tsa := newStampServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/stamp", r.URL.Path)

		var req stampRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "digest-abc", req.Digest)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stampResponse{
			Time:      stampedAt,
			Proof:     "proof-token",
			Authority: "tsa.example.com",
		})
	})

	ts, err := tsa.Stamp(context.Background(), "digest-abc")
	require.NoError(t, err)

	assert.True(t, ts.Time.Equal(stampedAt))
	assert.Equal(t, "proof-token", ts.ProofToken)
	assert.Equal(t, "tsa.example.com", ts.Authority)
	assert.False(t, ts.Degraded)
}

func TestHTTPTimestampAuthority_ServerError(t *testing.T) {
	tsa := newStampServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := tsa.Stamp(context.Background(), "digest-abc")
	assert.ErrorIs(t, err, ErrTimestampUnavailable)
}

func TestHTTPTimestampAuthority_IncompleteResponse(t *testing.T) {
	tsa := newStampServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := tsa.Stamp(context.Background(), "digest-abc")
	assert.ErrorIs(t, err, ErrTimestampUnavailable)
}

func TestHTTPTimestampAuthority_Unreachable(t *testing.T) {
	tsa, err := NewHTTPTimestampAuthority(config.Timestamp{URL: "127.0.0.1:1", Timeout: 200 * time.Millisecond}, logger.Nop())
	require.NoError(t, err)

	_, err = tsa.Stamp(context.Background(), "digest-abc")
	assert.ErrorIs(t, err, ErrTimestampUnavailable)
}

func TestNewHTTPTimestampAuthority_InvalidURL(t *testing.T) {
	_, err := NewHTTPTimestampAuthority(config.Timestamp{URL: ""}, logger.Nop())
	assert.Error(t, err)
}

func TestNewStaticNoticeProvider(t *testing.T) {
	provider, err := NewStaticNoticeProvider(config.Notice{
		Version:       "2026-03",
		ContentHash:   "abc123",
		EffectiveDate: "2026-03-01T00:00:00Z",
	})
	require.NoError(t, err)

	notice := provider.Current()
	assert.Equal(t, "2026-03", notice.Version)
	assert.Equal(t, "abc123", notice.ContentHash)
	assert.Equal(t, 2026, notice.EffectiveDate.Year())
}

func TestNewStaticNoticeProvider_Invalid(t *testing.T) {
	_, err := NewStaticNoticeProvider(config.Notice{Version: "", ContentHash: "h", EffectiveDate: "2026-03-01T00:00:00Z"})
	assert.Error(t, err)

	_, err = NewStaticNoticeProvider(config.Notice{Version: "v", ContentHash: "h", EffectiveDate: "not-a-date"})
	assert.Error(t, err)
}
