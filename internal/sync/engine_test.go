package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/safenode/vaultsync/internal/adapter"
	"github.com/safenode/vaultsync/internal/crypto"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/mock"
	"github.com/safenode/vaultsync/models"
)

// fakeServer is a stateful in-memory vault server with failure injection.
type fakeServer struct {
	mu gosync.Mutex

	exists bool
	blob   models.EncryptedVaultBlob

	failPulls     int
	conflictSaves bool
	pullCalls     int
	saveVersions  []int64

	// interceptSave runs once before the next SaveVault is evaluated,
	// mutating the server under the caller's feet.
	interceptSave func(f *fakeServer) error
}

var _ adapter.ServerAdapter = (*fakeServer)(nil)

func (f *fakeServer) LatestVault(_ context.Context, since int64) (adapter.RemoteVault, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pullCalls++
	if f.failPulls > 0 {
		f.failPulls--
		return adapter.RemoteVault{}, adapter.ErrTransient
	}
	if !f.exists {
		return adapter.RemoteVault{}, nil
	}
	if since > 0 && since == f.blob.Version {
		return adapter.RemoteVault{Exists: true, UpToDate: true, Blob: models.EncryptedVaultBlob{Version: f.blob.Version}}, nil
	}
	return adapter.RemoteVault{Exists: true, Blob: f.blob}, nil
}

func (f *fakeServer) InitVault(_ context.Context, ciphertext, iv []byte) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists {
		return 0, adapter.ErrVaultAlreadyExists
	}
	f.exists = true
	f.blob = models.EncryptedVaultBlob{Ciphertext: ciphertext, IV: iv, Version: 1}
	return 1, nil
}

func (f *fakeServer) SaveVault(_ context.Context, ciphertext, iv []byte, version int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveVersions = append(f.saveVersions, version)
	if f.interceptSave != nil {
		intercept := f.interceptSave
		f.interceptSave = nil
		if err := intercept(f); err != nil {
			return 0, err
		}
	}
	if f.conflictSaves || !f.exists || version != f.blob.Version+1 {
		return 0, adapter.ErrVersionConflict
	}
	f.blob = models.EncryptedVaultBlob{Ciphertext: ciphertext, IV: iv, Version: version}
	return version, nil
}

func (f *fakeServer) Register(context.Context, string, string) (string, error) { return "", nil }
func (f *fakeServer) Login(context.Context, string, string) (string, error)   { return "", nil }
func (f *fakeServer) SetToken(string)                                         {}
func (f *fakeServer) SetDeviceID(string)                                      {}
func (f *fakeServer) FetchSalt(context.Context) ([]byte, error)               { return nil, nil }
func (f *fakeServer) RegisterDevice(context.Context, string, string, string) (models.Device, error) {
	return models.Device{}, nil
}
func (f *fakeServer) ListDevices(context.Context) ([]models.Device, error) { return nil, nil }
func (f *fakeServer) ApproveDevice(context.Context, string) (models.Device, error) {
	return models.Device{}, nil
}
func (f *fakeServer) RemoveDevice(context.Context, string) (int, error) { return 0, nil }

// fakeLocal records blob caching and the pending flag.
type fakeLocal struct {
	mu      gosync.Mutex
	blobs   []models.EncryptedVaultBlob
	pending bool
}

func (f *fakeLocal) SaveBlob(blob models.EncryptedVaultBlob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs = append(f.blobs, blob)
	return nil
}

func (f *fakeLocal) MarkPending(pending bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = pending
	return nil
}

func newTestEngine(t *testing.T, server adapter.ServerAdapter, local LocalStore) *Engine {
	t.Helper()
	e := NewEngine(server, crypto.NewCipherService(), local, nil, testPolicy(), logger.Nop())
	e.retryBase = time.Millisecond
	return e
}

func testKey(t *testing.T) []byte {
	t.Helper()
	return crypto.NewCipherService().DeriveKey("master-password", []byte("0123456789abcdef"))
}

// sealVault encrypts a vault the way a peer device would before pushing.
func sealVault(t *testing.T, vault models.Vault, key []byte) models.EncryptedVaultBlob {
	t.Helper()
	cipher := crypto.NewCipherService()
	plaintext, err := cipher.EncodeVault(vault)
	require.NoError(t, err)
	ciphertext, iv, err := cipher.Encrypt(plaintext, key)
	require.NoError(t, err)
	return models.EncryptedVaultBlob{Ciphertext: ciphertext, IV: iv, Version: vault.Version}
}

func TestEngine_FirstPushInitializesVault(t *testing.T) {
	server := &fakeServer{}
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)
	key := testKey(t)

	out, err := e.Sync(context.Background(), key, vaultOf(0, entry("a", "mail", time.Hour)), true)
	require.NoError(t, err)
	assert.True(t, out.Pushed)
	assert.Equal(t, int64(1), out.Vault.Version)

	// The server got a blob our key can open.
	require.True(t, server.exists)
	cipher := crypto.NewCipherService()
	plaintext, err := cipher.Decrypt(server.blob.Ciphertext, server.blob.IV, key)
	require.NoError(t, err)
	pushed, err := cipher.DecodeVault(plaintext)
	require.NoError(t, err)
	require.Len(t, pushed.Entries, 1)
	assert.Equal(t, "mail", pushed.Entries[0].Title)

	require.NotEmpty(t, local.blobs)
	assert.Equal(t, int64(1), local.blobs[len(local.blobs)-1].Version)
	assert.False(t, local.pending)
}

func TestEngine_AdoptsServerStateWhenClean(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(3, entry("a", "from server", time.Hour)), key)
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	out, err := e.Sync(context.Background(), key, vaultOf(0), false)
	require.NoError(t, err)
	assert.True(t, out.Pulled)
	assert.False(t, out.Pushed)
	assert.Equal(t, int64(3), out.Vault.Version)
	require.Len(t, out.Vault.Entries, 1)
	assert.Equal(t, "from server", out.Vault.Entries[0].Title)
}

func TestEngine_NothingToDoWhenCurrentAndClean(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(2, entry("a", "mail", time.Hour)), key)
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	out, err := e.Sync(context.Background(), key, vaultOf(2, entry("a", "mail", time.Hour)), false)
	require.NoError(t, err)
	assert.False(t, out.Pushed)
	assert.False(t, out.Pulled)
	assert.Equal(t, int64(2), out.Vault.Version)
}

func TestEngine_PushesEditsWhenUpToDate(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(2, entry("a", "mail", time.Hour)), key)
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	edited := vaultOf(2, entry("a", "mail (edited)", time.Minute))
	out, err := e.Sync(context.Background(), key, edited, true)
	require.NoError(t, err)
	assert.True(t, out.Pushed)
	assert.Equal(t, int64(3), out.Vault.Version)
	assert.Equal(t, int64(3), server.blob.Version)
}

func TestEngine_MergesWhenBothSidesMoved(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(2,
		entry("a", "mail", 48*time.Hour),
		entry("b", "added remotely", 30*time.Hour),
	), key)
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	// This device is still at version 1 and edited entry "a" offline.
	localVault := vaultOf(1, entry("a", "mail (edited here)", time.Minute))
	out, err := e.Sync(context.Background(), key, localVault, true)
	require.NoError(t, err)

	assert.True(t, out.Pulled)
	assert.True(t, out.Pushed)
	assert.Equal(t, 1, out.Conflicts)
	assert.Equal(t, int64(3), out.Vault.Version)

	require.Len(t, out.Vault.Entries, 2)
	byID := map[string]models.VaultEntry{}
	for _, e := range out.Vault.Entries {
		byID[e.ID] = e
	}
	// The local edit is newer and wins the merge; the remote addition
	// outside the window is adopted.
	assert.Equal(t, "mail (edited here)", byID["a"].Title)
	assert.Equal(t, "added remotely", byID["b"].Title)

	assert.Equal(t, int64(3), server.blob.Version)
}

func TestEngine_QueuesWhenOffline(t *testing.T) {
	server := &fakeServer{failPulls: 100}
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	out, err := e.Sync(context.Background(), testKey(t), vaultOf(1, entry("a", "mail", time.Hour)), true)
	assert.ErrorIs(t, err, ErrOffline)
	assert.True(t, out.Queued)
	assert.True(t, local.pending)
	assert.Equal(t, StateQueued, e.State())
}

func TestEngine_RetriesTransientFailures(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true, failPulls: 2}
	server.blob = sealVault(t, vaultOf(1, entry("a", "mail", time.Hour)), key)
	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	out, err := e.Sync(context.Background(), key, vaultOf(0), false)
	require.NoError(t, err)
	assert.True(t, out.Pulled)
	assert.GreaterOrEqual(t, server.pullCalls, 3)
}

func TestEngine_WrongKeyIsStructural(t *testing.T) {
	rightKey := testKey(t)
	wrongKey := crypto.NewCipherService().DeriveKey("other-password", []byte("0123456789abcdef"))

	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(1, entry("a", "mail", time.Hour)), rightKey)
	e := newTestEngine(t, server, &fakeLocal{})

	_, err := e.Sync(context.Background(), wrongKey, vaultOf(0), false)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	// Structural failures are not retried.
	assert.Equal(t, 1, server.pullCalls)
}

func TestEngine_GivesUpUnderContention(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true, conflictSaves: true}
	server.blob = sealVault(t, vaultOf(2, entry("a", "mail", 48*time.Hour)), key)
	e := newTestEngine(t, server, &fakeLocal{})

	local := vaultOf(1, entry("a", "edited", time.Minute))
	_, err := e.Sync(context.Background(), key, local, true)
	assert.ErrorIs(t, err, ErrContention)
}

// Two devices race from the same baseline. The other device's push lands
// first, at the exact version this device tried to claim. The loser must
// re-pull the winner's blob and merge it; nothing the winner wrote may be
// overwritten.
func TestEngine_RemergesAfterLosingPushRace(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(1, entry("a", "mail", 48*time.Hour)), key)

	// The other device's edit lands as version 2 while our save is in
	// flight, adding entry "b".
	winner := sealVault(t, vaultOf(2,
		entry("a", "mail", 48*time.Hour),
		entry("b", "added on phone", 30*time.Hour),
	), key)
	server.interceptSave = func(f *fakeServer) error {
		f.exists = true
		f.blob = winner
		return adapter.ErrVersionConflict
	}

	local := &fakeLocal{}
	e := newTestEngine(t, server, local)

	edited := vaultOf(1, entry("a", "mail (edited here)", time.Minute))
	out, err := e.Sync(context.Background(), key, edited, true)
	require.NoError(t, err)

	assert.True(t, out.Pushed)
	assert.True(t, out.Pulled)
	assert.Equal(t, 1, out.Conflicts)
	assert.Equal(t, int64(3), out.Vault.Version)

	// First save claimed version 2 and lost; the retry pushed version 3.
	assert.Equal(t, []int64{2, 3}, server.saveVersions)

	// The server's final vault holds both sides' changes.
	cipher := crypto.NewCipherService()
	plaintext, err := cipher.Decrypt(server.blob.Ciphertext, server.blob.IV, key)
	require.NoError(t, err)
	final, err := cipher.DecodeVault(plaintext)
	require.NoError(t, err)
	require.Len(t, final.Entries, 2)
	byID := map[string]models.VaultEntry{}
	for _, e := range final.Entries {
		byID[e.ID] = e
	}
	assert.Equal(t, "mail (edited here)", byID["a"].Title)
	assert.Equal(t, "added on phone", byID["b"].Title)
}

func TestEngine_LocalCacheFailureSurfaces(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(2, entry("a", "mail", time.Hour)), key)

	ctrl := gomock.NewController(t)
	local := mock.NewMockLocalStore(ctrl)
	local.EXPECT().SaveBlob(gomock.Any()).Return(errors.New("disk full"))

	e := newTestEngine(t, server, local)
	_, err := e.Sync(context.Background(), key, vaultOf(0), false)
	assert.ErrorContains(t, err, "disk full")
}

func TestEngine_ReturnsToIdle(t *testing.T) {
	key := testKey(t)
	server := &fakeServer{exists: true}
	server.blob = sealVault(t, vaultOf(1, entry("a", "mail", time.Hour)), key)
	e := newTestEngine(t, server, &fakeLocal{})

	_, err := e.Sync(context.Background(), key, vaultOf(0), false)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, e.State())
}
