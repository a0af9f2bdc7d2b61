package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/safenode/vaultsync/models"
)

// GenerateJWTToken creates a signed HMAC-SHA256 bearer token for one session.
//
// Claims:
//   - iss: issuer (service identifier)
//   - sub: account ID, base-10 encoded
//   - jti: session ID, ties the token to exactly one DeviceSession, so
//     revoking the session invalidates the token regardless of its expiry
//   - iat/exp: issue time and issue time + tokenDuration
//
// All parameters are required; an error is returned when any is empty/zero.
func GenerateJWTToken(issuer string, accountID int64, sessionID string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || sessionID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(accountID, 10),
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{
		Token:        token,
		SignedString: tokenString,
		AccountID:    accountID,
		SessionID:    sessionID,
	}, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer and expiry of
// tokenString and extracts the account and session identifiers.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	parsed := &models.Token{}
	token, err := jwt.ParseWithClaims(tokenString, &parsed.RegisteredClaims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	parsed.Token = token
	parsed.SignedString = tokenString
	parsed.SessionID = parsed.RegisteredClaims.ID

	accountID, err := parsed.GetAccountID()
	if err != nil {
		return models.Token{}, err
	}
	parsed.AccountID = accountID

	if parsed.SessionID == "" {
		return models.Token{}, errors.New("token is missing the session (jti) claim")
	}

	return *parsed, nil
}
