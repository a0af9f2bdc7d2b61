package service

import (
	"context"

	"github.com/safenode/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService handles account registration and zero-knowledge login. The
// credential it verifies is the client-derived auth hash; the master password
// never reaches the server.
type AuthService interface {
	RegisterUser(ctx context.Context, login, authHash string) (models.Token, error)
	LoginUser(ctx context.Context, login, authHash string) (models.Token, error)
}

// SessionService manages login sessions and the bearer tokens that reference
// them. Every token carries its session ID in the "jti" claim, so revoking
// the session kills the token before its expiry.
type SessionService interface {
	// Create opens a new active session for the account, replacing any other
	// active sessions, and issues a signed bearer token for it.
	Create(ctx context.Context, accountID int64) (models.Token, error)

	// Validate parses and verifies a bearer token and loads its session.
	// Returns ErrTokenIsExpired for expired tokens and ErrSessionInvalidated
	// when the session is no longer active.
	Validate(ctx context.Context, tokenString string) (models.DeviceSession, error)

	// Bind attaches the session to a device, permanently. Binding an already
	// bound session to the same device is a no-op; to a different device it
	// returns ErrSessionDeviceMismatch.
	Bind(ctx context.Context, session models.DeviceSession, deviceID string) error

	// RevokeByDevice terminates every active session bound to the device and
	// returns how many were revoked.
	RevokeByDevice(ctx context.Context, accountID int64, deviceID, reason string) (int, error)
}

// DeviceTrustService owns the device trust state machine: registration,
// removal with session cascade, and reapproval of removed devices.
type DeviceTrustService interface {
	// Register admits a device into the account's trust set. Re-registering
	// an active device is an idempotent heartbeat; a removed device is
	// refused with ErrDeviceReapprovalRequired; a genuinely new device is
	// subject to the account's device quota.
	Register(ctx context.Context, accountID int64, deviceID, name, platform string) (models.Device, error)

	// Approve re-admits a removed device. The approver is the caller's bound
	// device and must itself be active.
	Approve(ctx context.Context, accountID int64, approverDeviceID, targetDeviceID string) (models.Device, error)

	// Remove deactivates a device, marks it as requiring reapproval, and
	// revokes all its sessions. A device cannot remove itself. Returns the
	// number of revoked sessions.
	Remove(ctx context.Context, accountID int64, callerDeviceID, targetDeviceID string) (int, error)

	List(ctx context.Context, accountID int64) ([]models.Device, error)

	// Verify checks that the device may act for the account right now:
	// registered, active, not awaiting reapproval. Updates last_seen.
	Verify(ctx context.Context, accountID int64, deviceID string) error
}

// VaultService is the server-side vault API: salt issuance and versioned
// blob storage. It never sees plaintext.
type VaultService interface {
	// IssueSalt returns the account's salt, creating it on first call.
	// Idempotent: every device of the account observes the same salt.
	IssueSalt(ctx context.Context, accountID int64) ([]byte, error)

	// Init stores the very first vault blob. Version must be exactly 1;
	// a second init fails with the store's version conflict.
	Init(ctx context.Context, accountID int64, ciphertext, iv []byte, version int64) (int64, error)

	// Save stores a new blob at the pushed version, which must be exactly
	// one greater than the stored version (compare-and-swap on version-1).
	Save(ctx context.Context, accountID int64, ciphertext, iv []byte, version int64) (int64, error)

	// Latest returns the current blob, or store.ErrVaultNotFound when no
	// vault has been pushed yet.
	Latest(ctx context.Context, accountID int64) (models.EncryptedVaultBlob, error)
}
