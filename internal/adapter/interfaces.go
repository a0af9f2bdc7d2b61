package adapter

import (
	"context"

	"github.com/safenode/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// RemoteVault is the decoded result of a pull.
type RemoteVault struct {
	// Exists is false when the account has never pushed a vault.
	Exists bool

	// UpToDate is true when the server confirmed the caller's version is
	// current; Blob is then left empty except for Version.
	UpToDate bool

	Blob models.EncryptedVaultBlob
}

// ServerAdapter is the client's view of the vault server. Implementations
// translate transport failures and error codes into the adapter sentinels;
// callers never see HTTP.
type ServerAdapter interface {
	// Register creates an account and returns its bearer token.
	Register(ctx context.Context, login, authHash string) (string, error)

	// Login authenticates and returns a fresh bearer token. Any previously
	// active session of the account is replaced server-side.
	Login(ctx context.Context, login, authHash string) (string, error)

	// SetToken installs the bearer token used by all authenticated calls.
	SetToken(token string)

	// SetDeviceID installs the device identifier sent on device-scoped calls.
	SetDeviceID(deviceID string)

	// FetchSalt returns the account's key-derivation salt, creating it on
	// first call.
	FetchSalt(ctx context.Context) ([]byte, error)

	// RegisterDevice admits this device into the account's trust set and
	// binds the current session to it.
	RegisterDevice(ctx context.Context, deviceID, name, platform string) (models.Device, error)

	// InitVault pushes the very first vault blob (version 1).
	InitVault(ctx context.Context, ciphertext, iv []byte) (int64, error)

	// SaveVault pushes a new blob at the given version. The server accepts
	// it only when version is exactly one past the stored version.
	SaveVault(ctx context.Context, ciphertext, iv []byte, version int64) (int64, error)

	// LatestVault pulls the current blob. since is the caller's local
	// version; the server skips the payload when it is current.
	LatestVault(ctx context.Context, since int64) (RemoteVault, error)

	ListDevices(ctx context.Context) ([]models.Device, error)
	ApproveDevice(ctx context.Context, deviceID string) (models.Device, error)
	RemoveDevice(ctx context.Context, deviceID string) (int, error)
}
