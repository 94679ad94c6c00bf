package utils

import (
	"bytes"
	"testing"
)

func TestHashBytes_Deterministic(t *testing.T) {
	first := HashBytes([]byte("payload"), "secret")
	second := HashBytes([]byte("payload"), "secret")

	if !bytes.Equal(first, second) {
		t.Error("expected identical digests for identical input")
	}
}

func TestHashBytes_KeyChangesDigest(t *testing.T) {
	a := HashBytes([]byte("payload"), "key-a")
	b := HashBytes([]byte("payload"), "key-b")

	if bytes.Equal(a, b) {
		t.Error("expected different digests under different keys")
	}
}

func TestHashBytes_DigestLength(t *testing.T) {
	digest := HashBytes([]byte("payload"), "secret")

	if len(digest) != 32 {
		t.Errorf("expected 32 bytes for SHA-256, got %d", len(digest))
	}
}
