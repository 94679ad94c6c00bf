package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPClient_IndependentInstances(t *testing.T) {
	first := NewHTTPClient()
	second := NewHTTPClient()

	if first.Client == nil || second.Client == nil {
		t.Fatal("expected initialized resty clients")
	}
	if first.Client == second.Client {
		t.Error("expected each call to return an independent client")
	}
}

func TestHTTPClient_PerformsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	resp, err := client.R().Get(srv.URL)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
	if string(resp.Body()) != "pong" {
		t.Errorf("unexpected body: %s", resp.Body())
	}
}
