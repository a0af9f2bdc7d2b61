package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/crypto"
	vaulthttp "github.com/safenode/vaultsync/internal/handler/http"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/service"
	"github.com/safenode/vaultsync/internal/store/storetest"
	"github.com/safenode/vaultsync/internal/sync"
	"github.com/safenode/vaultsync/models"
)

// testVaultServer runs the real API over in-memory repositories.
func testVaultServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.StructuredConfig{
		App: config.App{
			TokenSignKey:  "test-sign-key",
			TokenIssuer:   "vaultsync",
			TokenDuration: time.Hour,
		},
	}
	services := service.NewServices(storetest.NewRepositories(), crypto.NewCipherService(), cfg, logger.Nop())
	srv := httptest.NewServer(vaulthttp.NewHandler(services, logger.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp builds an app with its own state file, simulating one device.
func newTestApp(t *testing.T, serverURL string) *App {
	t.Helper()
	keyring.MockInit()

	cfg := &config.StructuredConfig{
		Client: config.Client{
			ServerURL:      serverURL,
			StatePath:      filepath.Join(t.TempDir(), "state.json"),
			SyncInterval:   time.Minute,
			RecencyWindow:  24 * time.Hour,
			RequestTimeout: 5 * time.Second,
		},
	}
	app, err := NewApp(cfg, logger.Nop())
	require.NoError(t, err)
	return app
}

func TestApp_RegisterUnlockAddSync(t *testing.T) {
	srv := testVaultServer(t)
	app := newTestApp(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "master-password"))
	require.NoError(t, app.Unlock(ctx, "master-password"))

	added, err := app.AddEntry(ctx, models.VaultEntry{
		Category: models.CategoryPassword,
		Title:    "mail",
		Username: "alice@example.com",
		Password: "secret",
		Tags:     []string{"email"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.NotZero(t, added.CreatedAt)

	// The add pushed eagerly: vault is at version 1 and no longer dirty.
	assert.Equal(t, int64(1), app.vault.Version)
	assert.False(t, app.dirty)

	entries, err := app.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mail", entries[0].Title)
}

func TestApp_SecondDeviceConverges(t *testing.T) {
	srv := testVaultServer(t)
	ctx := context.Background()

	laptop := newTestApp(t, srv.URL)
	require.NoError(t, laptop.Register(ctx, "alice", "master-password"))
	require.NoError(t, laptop.Unlock(ctx, "master-password"))
	_, err := laptop.AddEntry(ctx, models.VaultEntry{Category: models.CategoryPassword, Title: "mail", Password: "secret"})
	require.NoError(t, err)

	phone := newTestApp(t, srv.URL)
	require.NoError(t, phone.Login(ctx, "alice", "master-password"))
	require.NoError(t, phone.Unlock(ctx, "master-password"))

	out, err := phone.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, out.Pulled)
	assert.Equal(t, int64(1), out.Vault.Version)

	entries, err := phone.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mail", entries[0].Title)
}

func TestApp_WrongMasterPasswordLocksOut(t *testing.T) {
	srv := testVaultServer(t)
	app := newTestApp(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "master-password"))
	require.NoError(t, app.Unlock(ctx, "master-password"))
	_, err := app.AddEntry(ctx, models.VaultEntry{Category: models.CategoryNote, Title: "note", Notes: "n"})
	require.NoError(t, err)
	app.Lock()

	// With a cached blob, a wrong password fails decryption, and repeated
	// failures trip the cooldown.
	for i := 0; i < 3; i++ {
		err := app.Unlock(ctx, "wrong-password")
		require.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	}
	assert.ErrorIs(t, app.Unlock(ctx, "master-password"), sync.ErrLockedOut)
}

func TestApp_EditsSurviveRestart(t *testing.T) {
	srv := testVaultServer(t)
	ctx := context.Background()

	app := newTestApp(t, srv.URL)
	require.NoError(t, app.Register(ctx, "alice", "master-password"))
	require.NoError(t, app.Unlock(ctx, "master-password"))
	_, err := app.AddEntry(ctx, models.VaultEntry{Category: models.CategoryPassword, Title: "mail", Password: "secret"})
	require.NoError(t, err)
	statePath := app.cfg.StatePath

	// A new process on the same device opens the same state file.
	cfg := &config.StructuredConfig{Client: config.Client{
		ServerURL:      srv.URL,
		StatePath:      statePath,
		RecencyWindow:  24 * time.Hour,
		RequestTimeout: 5 * time.Second,
	}}
	restarted, err := NewApp(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, restarted.RestoreSession())
	require.NoError(t, restarted.Unlock(ctx, "master-password"))

	entries, err := restarted.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mail", entries[0].Title)
}

func TestApp_ForgetWipesDevice(t *testing.T) {
	srv := testVaultServer(t)
	app := newTestApp(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "master-password"))
	require.NoError(t, app.Forget())

	assert.ErrorIs(t, app.RestoreSession(), ErrNotLoggedIn)
	assert.False(t, app.Unlocked())
	_, ok := app.local.Blob()
	assert.False(t, ok)
}

func TestApp_LockedOperationsRefuse(t *testing.T) {
	srv := testVaultServer(t)
	app := newTestApp(t, srv.URL)

	_, err := app.Entries()
	assert.ErrorIs(t, err, ErrLocked)
	_, err = app.AddEntry(context.Background(), models.VaultEntry{Title: "x"})
	assert.ErrorIs(t, err, ErrLocked)
	_, err = app.Sync(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
}

func TestApp_CredentialProperties(t *testing.T) {
	srv := testVaultServer(t)
	app := newTestApp(t, srv.URL)

	// Deterministic, login-bound, password-bound.
	assert.Equal(t, app.credential("alice", "pw"), app.credential("alice", "pw"))
	assert.NotEqual(t, app.credential("alice", "pw"), app.credential("bob", "pw"))
	assert.NotEqual(t, app.credential("alice", "pw"), app.credential("alice", "other"))
}
