// Package client implements the command-line vault client: account and
// session management, local vault editing, and synchronization against the
// server. All cryptography happens here or below; the server only ever sees
// ciphertext.
package client

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/safenode/vaultsync/internal/adapter"
	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/crypto"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/internal/sync"
	"github.com/safenode/vaultsync/models"
)

// ErrNotLoggedIn is returned by operations that need a stored session when
// none exists on this device.
var ErrNotLoggedIn = errors.New("not logged in on this device")

// ErrLocked is returned by vault operations before a successful unlock.
var ErrLocked = errors.New("vault is locked")

// App holds the client's wiring and, between Unlock and Lock, the decrypted
// vault. One App serves one command invocation or one interactive session.
type App struct {
	logger *logger.Logger
	cfg    config.Client
	cipher crypto.CipherService
	local  store.LocalStore
	server adapter.ServerAdapter
	engine *sync.Engine
	guard  *sync.UnlockGuard
	tokens TokenStore

	key   []byte
	vault models.Vault
	dirty bool
}

// NewApp wires the client against the configured server and state path.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	local, err := store.NewLocalStore(cfg.Client.StatePath, log.GetChildLogger())
	if err != nil {
		return nil, fmt.Errorf("opening local state: %w", err)
	}

	cipher := crypto.NewCipherService()
	server := adapter.NewHTTPServerAdapter(cfg.Client, log.GetChildLogger())
	engine := sync.NewEngine(server, cipher, local, nil, sync.Policy{
		RecencyWindow: cfg.Client.RecencyWindow,
	}, log.GetChildLogger())

	return &App{
		logger: log,
		cfg:    cfg.Client,
		cipher: cipher,
		local:  local,
		server: server,
		engine: engine,
		guard:  sync.NewUnlockGuard(),
		tokens: NewKeyringTokenStore(),
	}, nil
}

// credential computes the server login credential. The auth key is derived
// from a salt computed from the login itself, so it needs no server round
// trip and stays distinct from the vault key, which uses the server-issued
// salt. The server can verify the credential but cannot derive either key.
func (a *App) credential(login, password string) string {
	loginSalt := sha256.Sum256([]byte("auth:" + login))
	authKey := a.cipher.DeriveKey(password, loginSalt[:16])
	return a.cipher.AuthHash(authKey, login)
}

// Register creates the account, opens a session, and admits this device.
func (a *App) Register(ctx context.Context, login, password string) error {
	token, err := a.server.Register(ctx, login, a.credential(login, password))
	if err != nil {
		return err
	}
	return a.adoptSession(ctx, login, token)
}

// Login opens a fresh session. The server revokes any previously active
// session of the account.
func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.server.Login(ctx, login, a.credential(login, password))
	if err != nil {
		return err
	}
	return a.adoptSession(ctx, login, token)
}

// adoptSession stores the fresh token, registers this device under the new
// session, and caches the account salt for offline key derivation.
func (a *App) adoptSession(ctx context.Context, login, token string) error {
	a.server.SetToken(token)

	if err := a.tokens.SaveToken(login, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if err := a.local.RememberLogin(login); err != nil {
		return err
	}

	if err := a.ensureDevice(ctx); err != nil {
		return err
	}

	salt, err := a.server.FetchSalt(ctx)
	if err != nil {
		return err
	}
	if err := a.local.SaveSalt(salt); err != nil {
		return err
	}

	a.logger.Info().Str("login", login).Msg("session established")
	return nil
}

// ensureDevice registers this installation's device identity and installs it
// on the adapter. The identity is generated once and reused afterwards.
func (a *App) ensureDevice(ctx context.Context) error {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "unnamed device"
	}

	identity, err := a.local.EnsureDeviceIdentity(name, runtime.GOOS)
	if err != nil {
		return err
	}

	a.server.SetDeviceID(identity.ID)
	if _, err := a.server.RegisterDevice(ctx, identity.ID, identity.Name, identity.Platform); err != nil {
		return err
	}
	return nil
}

// RestoreSession installs the remembered login's token and device identity
// without any prompting. Returns ErrNotLoggedIn when this device has no
// stored session.
func (a *App) RestoreSession() error {
	login := a.local.Login()
	if login == "" {
		return ErrNotLoggedIn
	}

	token, err := a.tokens.Token(login)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	a.server.SetToken(token)

	identity, err := a.local.EnsureDeviceIdentity("", "")
	if err != nil {
		return err
	}
	a.server.SetDeviceID(identity.ID)
	return nil
}

// Unlock derives the vault key from the master password and decrypts the
// locally cached vault. Works fully offline once a salt and blob are cached;
// falls back to fetching the salt when this device has never synced.
func (a *App) Unlock(ctx context.Context, masterPassword string) error {
	if err := a.guard.Allow(); err != nil {
		return err
	}

	salt, ok := a.local.Salt()
	if !ok {
		fetched, err := a.server.FetchSalt(ctx)
		if err != nil {
			return fmt.Errorf("no cached salt and server unavailable: %w", err)
		}
		if err := a.local.SaveSalt(fetched); err != nil {
			return err
		}
		salt = fetched
	}

	key := a.cipher.DeriveKey(masterPassword, salt)

	blob, ok := a.local.Blob()
	if !ok {
		// Nothing cached yet: start from an empty, never-pushed vault. A
		// wrong password surfaces on the first pull instead.
		a.key = key
		a.vault = models.Vault{}
		a.dirty = false
		a.guard.RecordSuccess()
		return nil
	}

	plaintext, err := a.cipher.Decrypt(blob.Ciphertext, blob.IV, key)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			a.guard.RecordFailure()
		}
		return err
	}
	vault, err := a.cipher.DecodeVault(plaintext)
	if err != nil {
		return err
	}
	vault.Version = blob.Version

	a.key = key
	a.vault = vault
	a.dirty = a.local.Pending()
	a.guard.RecordSuccess()
	return nil
}

// Unlocked reports whether the vault key is present in memory.
func (a *App) Unlocked() bool {
	return a.key != nil
}

// Lock wipes the key and the decrypted vault from memory.
func (a *App) Lock() {
	for i := range a.key {
		a.key[i] = 0
	}
	a.key = nil
	a.vault = models.Vault{}
	a.dirty = false
}

// Sync runs one synchronization cycle and adopts its outcome. Offline cycles
// queue the local changes and report sync.ErrOffline.
func (a *App) Sync(ctx context.Context) (sync.Outcome, error) {
	if !a.Unlocked() {
		return sync.Outcome{}, ErrLocked
	}

	out, err := a.engine.Sync(ctx, a.key, a.vault, a.dirty)
	if err != nil {
		return out, err
	}

	a.vault = out.Vault
	a.dirty = false
	return out, nil
}

// trySync pushes eagerly after an edit but treats an unreachable server as a
// non-error: the change is already queued locally.
func (a *App) trySync(ctx context.Context) error {
	_, err := a.Sync(ctx)
	if errors.Is(err, sync.ErrOffline) {
		a.logger.Info().Msg("server unreachable, change queued for next sync")
		return nil
	}
	return err
}

// saveLocal re-encrypts the current vault into the local cache so edits
// survive the process, pushed or not.
func (a *App) saveLocal() error {
	plaintext, err := a.cipher.EncodeVault(a.vault)
	if err != nil {
		return err
	}
	ciphertext, iv, err := a.cipher.Encrypt(plaintext, a.key)
	if err != nil {
		return err
	}

	if err := a.local.SaveBlob(models.EncryptedVaultBlob{
		Ciphertext: ciphertext,
		IV:         iv,
		Version:    a.vault.Version,
	}); err != nil {
		return err
	}
	return a.local.MarkPending(a.dirty)
}

// StartBackgroundSync launches the periodic sync job. The returned stop
// function blocks until the in-flight cycle finishes.
func (a *App) StartBackgroundSync(ctx context.Context) (stop func()) {
	job := sync.NewJob(a.cfg.SyncInterval, func(ctx context.Context) error {
		_, err := a.Sync(ctx)
		return err
	}, a.logger.GetChildLogger())

	job.Start(ctx)
	return job.Stop
}

// Forget removes this device's session, token, and cached state. The server
// still lists the device until it is removed from another one.
func (a *App) Forget() error {
	a.Lock()

	if login := a.local.Login(); login != "" {
		if err := a.tokens.DeleteToken(login); err != nil {
			a.logger.Debug().Err(err).Msg("no token to delete")
		}
	}
	return a.local.Reset()
}
