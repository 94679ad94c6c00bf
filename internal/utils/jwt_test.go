package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateGrantToken_Success(t *testing.T) {
	issuer := "test-issuer"
	tokenID := "grant-1"
	submissionID := "sub-1"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateGrantToken(issuer, tokenID, submissionID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}
	if token.RegisteredClaims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, token.RegisteredClaims.Issuer)
	}
	if token.RegisteredClaims.Subject != submissionID {
		t.Errorf("expected subject %s, got %s", submissionID, token.RegisteredClaims.Subject)
	}
	if token.RegisteredClaims.ID != tokenID {
		t.Errorf("expected jti %s, got %s", tokenID, token.RegisteredClaims.ID)
	}
}

func TestGenerateGrantToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name         string
		issuer       string
		tokenID      string
		submissionID string
		duration     time.Duration
		key          string
	}{
		{"empty issuer", "", "jti", "sub", time.Hour, "key"},
		{"empty token id", "iss", "", "sub", time.Hour, "key"},
		{"empty submission id", "iss", "jti", "", time.Hour, "key"},
		{"zero duration", "iss", "jti", "sub", 0, "key"},
		{"empty key", "iss", "jti", "sub", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateGrantToken(tt.issuer, tt.tokenID, tt.submissionID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseGrantToken_RoundTrip(t *testing.T) {
	token, err := GenerateGrantToken("iss", "grant-1", "sub-1", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateAndParseGrantToken(token.SignedString, "key", "iss")
	if err != nil {
		t.Fatalf("expected valid token, got: %v", err)
	}
	if parsed.TokenID != "grant-1" {
		t.Errorf("expected token ID grant-1, got %s", parsed.TokenID)
	}
	if parsed.SubmissionID != "sub-1" {
		t.Errorf("expected submission ID sub-1, got %s", parsed.SubmissionID)
	}
}

func TestValidateAndParseGrantToken_WrongKey(t *testing.T) {
	token, err := GenerateGrantToken("iss", "grant-1", "sub-1", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err = ValidateAndParseGrantToken(token.SignedString, "other-key", "iss"); err == nil {
		t.Error("expected signature validation error, got nil")
	}
}

func TestValidateAndParseGrantToken_WrongIssuer(t *testing.T) {
	token, err := GenerateGrantToken("iss", "grant-1", "sub-1", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err = ValidateAndParseGrantToken(token.SignedString, "key", "someone-else"); err == nil {
		t.Error("expected issuer validation error, got nil")
	}
}

func TestValidateAndParseGrantToken_Expired(t *testing.T) {
	token, err := GenerateGrantToken("iss", "grant-1", "sub-1", time.Nanosecond, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err = ValidateAndParseGrantToken(token.SignedString, "key", "iss"); err == nil {
		t.Error("expected expiry validation error, got nil")
	}
}

func TestValidateAndParseGrantToken_Tampered(t *testing.T) {
	token, err := GenerateGrantToken("iss", "grant-1", "sub-1", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(token.SignedString, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %s", token.SignedString)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err = ValidateAndParseGrantToken(tampered, "key", "iss"); err == nil {
		t.Error("expected validation error for tampered payload, got nil")
	}
}
