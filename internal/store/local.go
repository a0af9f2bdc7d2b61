package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	gosync "sync"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// DeviceIdentity is this installation's self-assigned device identity. The
// ID is generated once and reused for every registration afterwards, so the
// server sees one stable device per install.
type DeviceIdentity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

// LocalStore is the client-side state file: the last server-confirmed
// encrypted blob, the account salt, the pending-changes flag and the device
// identity. Secrets never touch it; the vault stays encrypted and the token
// lives in the OS keyring.
type LocalStore interface {
	SaveBlob(blob models.EncryptedVaultBlob) error
	Blob() (models.EncryptedVaultBlob, bool)

	MarkPending(pending bool) error
	Pending() bool

	SaveSalt(salt []byte) error
	Salt() ([]byte, bool)

	// EnsureDeviceIdentity returns the stored identity, creating one with a
	// fresh random ID on first use.
	EnsureDeviceIdentity(name, platform string) (DeviceIdentity, error)

	RememberLogin(login string) error
	Login() string

	// Reset wipes the state file. Used when the user forgets this device.
	Reset() error
}

// localState is the JSON document persisted at the state path.
type localState struct {
	Login   string                     `json:"login,omitempty"`
	Device  *DeviceIdentity            `json:"device,omitempty"`
	Salt    []byte                     `json:"salt,omitempty"`
	Blob    *models.EncryptedVaultBlob `json:"blob,omitempty"`
	Pending bool                       `json:"pending,omitempty"`
}

type localStore struct {
	logger *logger.Logger

	mu    gosync.Mutex
	path  string
	state localState
}

// NewLocalStore opens (or initialises) the client state file at path. An
// empty path keeps all state in memory only.
func NewLocalStore(path string, logger *logger.Logger) (LocalStore, error) {
	logger.Debug().Str("path", path).Msg("opening local state store")

	s := &localStore{
		logger: logger,
		path:   path,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localStore) load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		s.logger.Err(err).Str("func", "*localStore.load").Msg("state file is corrupt, starting clean")
		s.state = localState{}
	}
	return nil
}

// persist writes the state atomically: temp file in the same directory, then
// rename. The file is private to the user.
func (s *localStore) persist() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// SaveBlob implements [LocalStore].
func (s *localStore) SaveBlob(blob models.EncryptedVaultBlob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Blob = &blob
	return s.persist()
}

// Blob implements [LocalStore].
func (s *localStore) Blob() (models.EncryptedVaultBlob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Blob == nil {
		return models.EncryptedVaultBlob{}, false
	}
	return *s.state.Blob, true
}

// MarkPending implements [LocalStore].
func (s *localStore) MarkPending(pending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Pending = pending
	return s.persist()
}

// Pending implements [LocalStore].
func (s *localStore) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Pending
}

// SaveSalt implements [LocalStore]. Caching the salt lets the client derive
// the vault key without a round trip, including fully offline.
func (s *localStore) SaveSalt(salt []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Salt = salt
	return s.persist()
}

// Salt implements [LocalStore].
func (s *localStore) Salt() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Salt) == 0 {
		return nil, false
	}
	return s.state.Salt, true
}

// EnsureDeviceIdentity implements [LocalStore].
func (s *localStore) EnsureDeviceIdentity(name, platform string) (DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Device != nil {
		return *s.state.Device, nil
	}

	identity := DeviceIdentity{
		ID:       utils.NewUUID(),
		Name:     name,
		Platform: platform,
	}
	s.state.Device = &identity
	if err := s.persist(); err != nil {
		return DeviceIdentity{}, err
	}

	s.logger.Info().Str("device_id", identity.ID).Msg("generated device identity")
	return identity, nil
}

// RememberLogin implements [LocalStore].
func (s *localStore) RememberLogin(login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Login = login
	return s.persist()
}

// Login implements [LocalStore].
func (s *localStore) Login() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Login
}

// Reset implements [LocalStore].
func (s *localStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = localState{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}
