package store

import (
	"context"
	"time"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists the thin account records the session and device
// layers key on.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// VaultRepository is the server-side vault version store: exactly one
// (ciphertext, iv, salt, version) tuple per account, guarded by optimistic
// concurrency. The store never interprets plaintext and never resolves
// conflicts; it only enforces compare-and-swap on the version column.
type VaultRepository interface {
	// EnsureSalt returns the account's salt, persisting candidate as the
	// salt if none exists yet. Idempotent under concurrency: of two racing
	// calls with different candidates, exactly one candidate is stored and
	// both callers observe it, never two different salts for one account.
	EnsureSalt(ctx context.Context, accountID int64, candidate []byte) ([]byte, error)

	// GetLatest returns the current blob, or ErrVaultNotFound when no vault
	// has been pushed (a salt-only row counts as no vault).
	GetLatest(ctx context.Context, accountID int64) (models.EncryptedVaultBlob, error)

	// Put stores a new ciphertext at version expectedVersion+1. It succeeds
	// only when the stored version still equals expectedVersion, returning
	// the new version; otherwise ErrVersionConflict. Exactly one of two
	// racing writers with the same baseline wins. Requires the salt row to
	// exist (ErrSaltNotIssued otherwise).
	Put(ctx context.Context, accountID int64, ciphertext, iv []byte, expectedVersion int64) (int64, error)
}

// DeviceRepository persists device trust rows.
type DeviceRepository interface {
	CreateDevice(ctx context.Context, device models.Device) (models.Device, error)
	GetDevice(ctx context.Context, accountID int64, deviceID string) (models.Device, error)
	ListDevices(ctx context.Context, accountID int64) ([]models.Device, error)
	CountActiveDevices(ctx context.Context, accountID int64) (int, error)

	// TouchDevice updates last_seen. Deliberately separate from UpdateTrust
	// so heartbeats cannot interfere with trust state.
	TouchDevice(ctx context.Context, accountID int64, deviceID string, seenAt time.Time) error

	// UpdateTrust sets the trust columns (is_active, requires_reapproval,
	// removed_at) of an existing row.
	UpdateTrust(ctx context.Context, device models.Device) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	// CreateSession inserts the new session and, in the same transaction,
	// marks every other active session of the account as replaced by it.
	CreateSession(ctx context.Context, session models.DeviceSession) (replaced int, err error)

	GetSession(ctx context.Context, sessionID string) (models.DeviceSession, error)

	// BindDevice sets the session's device binding. The WHERE clause only
	// matches active sessions that are unbound or already bound to the same
	// device, so a rebind attempt affects zero rows.
	BindDevice(ctx context.Context, sessionID string, accountID int64, deviceID string) error

	// RevokeByDevice terminates all active sessions bound to the device and
	// returns how many were revoked.
	RevokeByDevice(ctx context.Context, accountID int64, deviceID, reason string) (int, error)

	TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error
}

// Repositories bundles all server-side repositories for dependency wiring.
type Repositories struct {
	UserRepository    UserRepository
	VaultRepository   VaultRepository
	DeviceRepository  DeviceRepository
	SessionRepository SessionRepository
}

// NewRepositories wires every repository to the shared database handle.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db, log),
		VaultRepository:   NewVaultRepository(db, log),
		DeviceRepository:  NewDeviceRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
	}
}
