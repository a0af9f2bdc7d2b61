package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT bearer token together with the values the rest of the
// application needs from it: the owning account ("sub" claim) and the session
// it was issued for ("jti" claim).
//
// SignedString holds the compact serialized form ready to be sent in the
// Authorization header or kept in the OS keyring on the client.
type Token struct {
	// Token is the underlying parsed JWT. Excluded from JSON because only
	// the compact string form is meaningful outside the process.
	*jwt.Token `json:"-"`

	// RegisteredClaims gives access to the standard claim set (sub, exp,
	// iat, jti, iss) per RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// AccountID is the parsed "sub" claim, cached to avoid re-parsing.
	AccountID int64 `json:"-"`

	// SessionID is the "jti" claim: the DeviceSession this token belongs to.
	SessionID string `json:"-"`
}

// GetAccountID parses the "sub" claim as a base-10 int64 account identifier.
func (t *Token) GetAccountID() (int64, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting account ID from token: %w", err)
	}

	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting account ID from token to int64: %w", err)
	}

	return accountID, nil
}

// String returns the compact JWS serialization. Implements fmt.Stringer.
func (t *Token) String() string {
	return t.SignedString
}
