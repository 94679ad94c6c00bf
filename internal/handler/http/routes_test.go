// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/internal/adapter"
	"github.com/consentvault/consent-keeper/internal/chain"
	"github.com/consentvault/consent-keeper/internal/config"
	"github.com/consentvault/consent-keeper/internal/crypto"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/service"
	"github.com/consentvault/consent-keeper/internal/store"
	"github.com/consentvault/consent-keeper/models"
)

// captureNotifier records the last code handed to it instead of delivering.
type captureNotifier struct {
	mu   sync.Mutex
	code string
}

func (n *captureNotifier) Send(_ context.Context, _ string, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.code = code
	return nil
}

func (n *captureNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.code
}

// testBundleStorage is an in-memory BundleStorage for transport tests.
type testBundleStorage struct {
	mu      sync.Mutex
	records map[string]store.BundleRecord
}

func (s *testBundleStorage) Save(_ context.Context, record *store.BundleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.SubmissionID]; ok {
		return store.ErrBundleExists
	}
	s.records[record.SubmissionID] = *record
	return nil
}

func (s *testBundleStorage) Get(_ context.Context, submissionID string) (*store.BundleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[submissionID]
	if !ok {
		return nil, store.ErrBundleNotFound
	}
	return &record, nil
}

func testConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		App: config.App{
			MasterKey:    "test-master-key",
			TokenSignKey: "test-sign-key",
			TokenIssuer:  "consent-keeper-test",
		},
		Storage: config.Storage{RetentionDays: 30},
		Grants: config.Grants{
			TTL:            time.Hour,
			MaxUses:        1,
			ExhaustedGrace: time.Minute,
		},
		OTP: config.OTP{
			CodeLength:  6,
			MaxAttempts: 3,
			TTL:         5 * time.Minute,
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *captureNotifier) {
	t.Helper()

	dir := t.TempDir()
	log := logger.Nop()

	submissions, err := store.NewFileSubmissionStorage(dir, 1, log)
	require.NoError(t, err)

	evidenceChain, err := chain.New(filepath.Join(dir, "chain.jsonl"), log)
	require.NoError(t, err)

	encryptor, err := crypto.NewFieldEncryptor("test-master-key", 0)
	require.NoError(t, err)

	notice, err := adapter.NewStaticNoticeProvider(config.Notice{
		Version:       "2026-03",
		ContentHash:   "0f3a9c",
		EffectiveDate: "2026-03-01T00:00:00Z",
	})
	require.NoError(t, err)

	notifier := &captureNotifier{}

	storages := store.Storages{
		Submissions: submissions,
		Grants:      store.NewMemoryGrantStorage(),
		Challenges:  store.NewMemoryChallengeStorage(),
		Bundles:     &testBundleStorage{records: make(map[string]store.BundleRecord)},
	}

	services := service.NewServices(storages, service.Dependencies{
		Encryptor:    encryptor,
		Chain:        evidenceChain,
		Notifier:     notifier,
		NoticeSource: notice,
	}, testConfig(), log)

	server := httptest.NewServer(NewHandler(services, log).Init())
	t.Cleanup(server.Close)

	return server, notifier
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func submitTestConsent(t *testing.T, server *httptest.Server) models.ConsentResponse {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/consent", models.ConsentRequest{
		Form:     map[string]string{"full_name": "Ada Lovelace"},
		Artifact: []byte("rendered consent document"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeBody[models.ConsentResponse](t, resp)
}

func TestSubmitConsent(t *testing.T) {
	server, _ := newTestServer(t)

	consent := submitTestConsent(t, server)

	assert.NotEmpty(t, consent.SubmissionID)
	assert.NotEmpty(t, consent.DownloadToken)
	assert.NotEmpty(t, consent.Anchor.Hash)
	assert.Equal(t, "2026-03", consent.NoticeVersion)
	assert.True(t, consent.Timestamp.Degraded, "no timestamp authority is configured")
	assert.True(t, consent.ExpiresAt.After(time.Now()))
}

func TestSubmitConsent_InvalidJSON(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/consent", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitConsent_MissingArtifact(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/consent", models.ConsentRequest{
		Form: map[string]string{"full_name": "Ada Lovelace"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadConsent(t *testing.T) {
	server, _ := newTestServer(t)
	consent := submitTestConsent(t, server)

	resp, err := http.Get(server.URL + "/api/consent/download?token=" + consent.DownloadToken)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Content-Hash"))

	artifact, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("rendered consent document"), artifact)
}

func TestDownloadConsent_MissingToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/consent/download")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadConsent_GarbageToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/consent/download?token=not.a.token")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadConsent_ExhaustedGrant(t *testing.T) {
	server, _ := newTestServer(t)
	consent := submitTestConsent(t, server)

	first, err := http.Get(server.URL + "/api/consent/download?token=" + consent.DownloadToken)
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	// the single allowed use is consumed, the retry gets a precise answer
	second, err := http.Get(server.URL + "/api/consent/download?token=" + consent.DownloadToken)
	require.NoError(t, err)
	defer second.Body.Close()

	assert.Equal(t, http.StatusGone, second.StatusCode)
}

func TestOTPFlow(t *testing.T) {
	server, notifier := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/otp/request", models.OTPRequest{Recipient: "ada@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	issued := decodeBody[models.OTPRequestResponse](t, resp)
	assert.NotEmpty(t, issued.ChallengeID)

	code := notifier.lastCode()
	require.Len(t, code, 6)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	failed := postJSON(t, server.URL+"/api/otp/verify", models.OTPVerifyRequest{Recipient: "ada@example.com", Code: wrong})
	require.Equal(t, http.StatusUnauthorized, failed.StatusCode)

	failedBody := decodeBody[models.OTPVerifyResponse](t, failed)
	assert.False(t, failedBody.Verified)
	assert.Equal(t, "code_mismatch", failedBody.Reason)
	assert.Equal(t, 2, failedBody.AttemptsLeft)

	verified := postJSON(t, server.URL+"/api/otp/verify", models.OTPVerifyRequest{Recipient: "ada@example.com", Code: code})
	require.Equal(t, http.StatusOK, verified.StatusCode)

	verifiedBody := decodeBody[models.OTPVerifyResponse](t, verified)
	assert.True(t, verifiedBody.Verified)
	require.NotNil(t, verifiedBody.Record)
	assert.Equal(t, "ada@example.com", verifiedBody.Record.Recipient)
}

func TestOTPRequest_EmptyRecipient(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/otp/request", models.OTPRequest{})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOTPVerify_NoChallenge(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/otp/verify", models.OTPVerifyRequest{Recipient: "nobody@example.com", Code: "123456"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[models.OTPVerifyResponse](t, resp)
	assert.Equal(t, "no_active_challenge", body.Reason)
}

func TestVerifyChain(t *testing.T) {
	server, _ := newTestServer(t)

	submitTestConsent(t, server)
	submitTestConsent(t, server)

	resp, err := http.Get(server.URL + "/api/chain/verify")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[models.ChainVerification](t, resp)
	assert.True(t, result.Valid)
	assert.Nil(t, result.BrokenAtIndex)
	assert.Equal(t, 2, result.Entries)
}

func TestVerifyChain_InvalidFrom(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/chain/verify?from=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTraceIDHeader(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-42")

	echoed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer echoed.Body.Close()

	assert.Equal(t, "trace-42", echoed.Header.Get(traceIDHeader))
}
