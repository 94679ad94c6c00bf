package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/consentvault/consent-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateGrantToken creates a signed HMAC-SHA256 JWT download token.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the submission the token grants access to
//   - ID        (jti): the grant identifier matching the server-side record
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Parameters:
//
//	issuer        - identifier of the token issuer (e.g. service name)
//	tokenID       - grant identifier embedded as the jti claim
//	submissionID  - submission the token is issued for
//	tokenDuration - how long the token remains valid
//	signKey       - secret key used to sign the token with HMAC-SHA256
//
// Returns:
//
//	models.GrantToken - contains the signed token string and the jwt.Token object
//	error             - non-nil if parameters are invalid or signing fails
//
// Example usage:
//
//	token, err := utils.GenerateGrantToken("consent-keeper", grantID, subID, 24*time.Hour, "secret")
func GenerateGrantToken(issuer, tokenID, submissionID string, tokenDuration time.Duration, signKey string) (models.GrantToken, error) {
	if issuer == "" || tokenID == "" || submissionID == "" || tokenDuration == 0 || signKey == "" {
		return models.GrantToken{}, errors.New("invalid params for generating download token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   submissionID,
		ID:        tokenID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.GrantToken{}, fmt.Errorf("error occurred during signing download token: %w", err)
	}

	return models.GrantToken{
		Token:            token,
		RegisteredClaims: *claims,
		SignedString:     tokenString,
		TokenID:          tokenID,
		SubmissionID:     submissionID,
	}, nil
}

// ValidateAndParseGrantToken validates the given download token string and
// extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Presence of both the jti and sub claims
//
// Parameters:
//
//	tokenString  - the raw signed JWT string to validate and parse
//	tokenSignKey - secret key used to verify the token signature
//	tokenIssuer  - expected issuer value to validate against the iss claim
//
// Returns:
//
//	models.GrantToken - contains the parsed token plus the extracted grant and submission IDs
//	error             - non-nil if validation fails or required claims are missing
func ValidateAndParseGrantToken(tokenString, tokenSignKey, tokenIssuer string) (models.GrantToken, error) {
	parsed := models.GrantToken{}
	token, err := jwt.ParseWithClaims(tokenString, &parsed.RegisteredClaims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.GrantToken{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	parsed.Token = token
	parsed.SignedString = tokenString

	tokenID, submissionID, err := parsed.ClaimIDs()
	if err != nil {
		return models.GrantToken{}, err
	}
	parsed.TokenID = tokenID
	parsed.SubmissionID = submissionID

	return parsed, nil
}
