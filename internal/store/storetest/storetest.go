// Package storetest provides in-memory implementations of the store
// interfaces for tests. They honor the same error contracts as the
// PostgreSQL repositories (sentinel errors, compare-and-swap semantics,
// replace-on-login) without a database.
package storetest

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/models"
)

// UserRepo is an in-memory store.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.User
}

// NewUserRepo constructs an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]models.User)}
}

func (r *UserRepo) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Login]; ok {
		return models.User{}, store.ErrLoginAlreadyExists
	}
	r.nextID++
	user.UserID = r.nextID
	r.users[user.Login] = user
	return user, nil
}

func (r *UserRepo) FindUserByLogin(_ context.Context, login string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[login]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return user, nil
}

// VaultRepo is an in-memory store.VaultRepository.
type VaultRepo struct {
	mu    sync.Mutex
	salts map[int64][]byte
	blobs map[int64]models.EncryptedVaultBlob
}

// NewVaultRepo constructs an empty VaultRepo.
func NewVaultRepo() *VaultRepo {
	return &VaultRepo{
		salts: make(map[int64][]byte),
		blobs: make(map[int64]models.EncryptedVaultBlob),
	}
}

func (r *VaultRepo) EnsureSalt(_ context.Context, accountID int64, candidate []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.salts[accountID]; ok {
		return existing, nil
	}
	stored := bytes.Clone(candidate)
	r.salts[accountID] = stored
	return stored, nil
}

func (r *VaultRepo) GetLatest(_ context.Context, accountID int64) (models.EncryptedVaultBlob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blob, ok := r.blobs[accountID]
	if !ok || !blob.HasVault() {
		return models.EncryptedVaultBlob{}, store.ErrVaultNotFound
	}
	return blob, nil
}

func (r *VaultRepo) Put(_ context.Context, accountID int64, ciphertext, iv []byte, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	salt, ok := r.salts[accountID]
	if !ok {
		return 0, store.ErrSaltNotIssued
	}
	current := r.blobs[accountID].Version
	if current != expectedVersion {
		return 0, store.ErrVersionConflict
	}
	r.blobs[accountID] = models.EncryptedVaultBlob{
		Ciphertext: bytes.Clone(ciphertext),
		IV:         bytes.Clone(iv),
		Salt:       salt,
		Version:    expectedVersion + 1,
	}
	return expectedVersion + 1, nil
}

type deviceKey struct {
	accountID int64
	deviceID  string
}

// DeviceRepo is an in-memory store.DeviceRepository.
type DeviceRepo struct {
	mu      sync.Mutex
	devices map[deviceKey]models.Device
}

// NewDeviceRepo constructs an empty DeviceRepo.
func NewDeviceRepo() *DeviceRepo {
	return &DeviceRepo{devices: make(map[deviceKey]models.Device)}
}

func (r *DeviceRepo) CreateDevice(_ context.Context, device models.Device) (models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := deviceKey{device.AccountID, device.DeviceID}
	if _, ok := r.devices[key]; ok {
		return models.Device{}, store.ErrDeviceAlreadyExists
	}
	device.IsActive = true
	device.RequiresReapproval = false
	device.RegisteredAt = time.Now()
	device.LastSeen = device.RegisteredAt
	r.devices[key] = device
	return device, nil
}

func (r *DeviceRepo) GetDevice(_ context.Context, accountID int64, deviceID string) (models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	device, ok := r.devices[deviceKey{accountID, deviceID}]
	if !ok {
		return models.Device{}, store.ErrDeviceNotFound
	}
	return device, nil
}

func (r *DeviceRepo) ListDevices(_ context.Context, accountID int64) ([]models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var devices []models.Device
	for key, device := range r.devices {
		if key.accountID == accountID {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

func (r *DeviceRepo) CountActiveDevices(_ context.Context, accountID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key, device := range r.devices {
		if key.accountID == accountID && device.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *DeviceRepo) TouchDevice(_ context.Context, accountID int64, deviceID string, seenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := deviceKey{accountID, deviceID}
	device, ok := r.devices[key]
	if !ok {
		return store.ErrDeviceNotFound
	}
	device.LastSeen = seenAt
	r.devices[key] = device
	return nil
}

func (r *DeviceRepo) UpdateTrust(_ context.Context, device models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := deviceKey{device.AccountID, device.DeviceID}
	existing, ok := r.devices[key]
	if !ok {
		return store.ErrDeviceNotFound
	}
	existing.IsActive = device.IsActive
	existing.RequiresReapproval = device.RequiresReapproval
	existing.RemovedAt = device.RemovedAt
	r.devices[key] = existing
	return nil
}

// SessionRepo is an in-memory store.SessionRepository.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.DeviceSession
}

// NewSessionRepo constructs an empty SessionRepo.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]models.DeviceSession)}
}

func (r *SessionRepo) CreateSession(_ context.Context, session models.DeviceSession) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	replaced := 0
	now := time.Now()
	for id, existing := range r.sessions {
		if existing.AccountID == session.AccountID && existing.Status == models.SessionActive {
			existing.Status = models.SessionReplaced
			existing.RevokedAt = &now
			existing.RevokedReason = models.RevokeReasonNewLogin
			existing.ReplacedBySessionID = session.ID
			r.sessions[id] = existing
			replaced++
		}
	}
	session.Status = models.SessionActive
	session.CreatedAt = now
	session.LastSeenAt = now
	r.sessions[session.ID] = session
	return replaced, nil
}

func (r *SessionRepo) GetSession(_ context.Context, sessionID string) (models.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return models.DeviceSession{}, store.ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionRepo) BindDevice(_ context.Context, sessionID string, accountID int64, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok || session.AccountID != accountID || session.Status != models.SessionActive {
		return store.ErrSessionNotFound
	}
	if session.DeviceID != "" && session.DeviceID != deviceID {
		return store.ErrSessionNotFound
	}
	session.DeviceID = deviceID
	r.sessions[sessionID] = session
	return nil
}

func (r *SessionRepo) RevokeByDevice(_ context.Context, accountID int64, deviceID, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	revoked := 0
	now := time.Now()
	for id, session := range r.sessions {
		if session.AccountID == accountID && session.DeviceID == deviceID && session.Status == models.SessionActive {
			session.Status = models.SessionRevoked
			session.RevokedAt = &now
			session.RevokedReason = reason
			r.sessions[id] = session
			revoked++
		}
	}
	return revoked, nil
}

func (r *SessionRepo) TouchSession(_ context.Context, sessionID string, seenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	session.LastSeenAt = seenAt
	r.sessions[sessionID] = session
	return nil
}

// NewRepositories bundles fresh in-memory repositories.
func NewRepositories() *store.Repositories {
	return &store.Repositories{
		UserRepository:    NewUserRepo(),
		VaultRepository:   NewVaultRepo(),
		DeviceRepository:  NewDeviceRepo(),
		SessionRepository: NewSessionRepo(),
	}
}
