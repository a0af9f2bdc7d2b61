// Package utils provides small helpers shared across the application:
// type-safe context keys, JSON response writing, JWT token generation and
// validation, and UUID generation.
package utils

import (
	"context"

	"github.com/safenode/vaultsync/models"
)

// contextKey is a private type for context keys. A dedicated type prevents
// collisions with string-based keys from other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// AccountIDCtxKey stores the authenticated account identifier (int64) in the
// request context. Set by the auth middleware after token validation.
var AccountIDCtxKey = contextKey("accountID")

// SessionIDCtxKey stores the authenticated session identifier (string).
var SessionIDCtxKey = contextKey("sessionID")

// DeviceIDCtxKey stores the verified device identifier (string) for
// device-scoped routes. Set by the device middleware after the session
// binding check.
var DeviceIDCtxKey = contextKey("deviceID")

// SessionCtxKey stores the full authenticated session
// (models.DeviceSession). The device middleware needs the session's binding
// state, not just its identifier.
var SessionCtxKey = contextKey("session")

// GetAccountIDFromContext retrieves the account identifier from ctx.
// ok is false when the value is missing or has an unexpected type.
func GetAccountIDFromContext(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(int64)
	return accountID, ok
}

// GetSessionIDFromContext retrieves the session identifier from ctx.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDCtxKey).(string)
	return sessionID, ok
}

// GetDeviceIDFromContext retrieves the verified device identifier from ctx.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID, ok
}

// GetSessionFromContext retrieves the authenticated session from ctx.
func GetSessionFromContext(ctx context.Context) (models.DeviceSession, bool) {
	session, ok := ctx.Value(SessionCtxKey).(models.DeviceSession)
	return session, ok
}
