// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/internal/config"
	chiHTTP "github.com/consentvault/consent-keeper/internal/handler/http"
	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/internal/service"
)

func TestNewServer_NoAddress(t *testing.T) {
	handler := chiHTTP.NewHandler(&service.Services{}, logger.Nop())

	_, err := NewServer(handler, config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewServer_WithAddress(t *testing.T) {
	handler := chiHTTP.NewHandler(&service.Services{}, logger.Nop())

	srv, err := NewServer(handler, config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestHTTPServer_ShutdownBeforeRun(t *testing.T) {
	srv := newHTTPServer(http.NewServeMux(), config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())

	// shutting down a server that never started must not hang or panic
	done := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}
}
