package client

import "github.com/zalando/go-keyring"

// keyringService namespaces our entries in the OS credential store.
const keyringService = "vaultsync"

// TokenStore persists the bearer token outside the state file. The OS
// keyring keeps it out of plain files and out of backups.
type TokenStore interface {
	SaveToken(login, token string) error
	Token(login string) (string, error)
	DeleteToken(login string) error
}

type keyringTokenStore struct{}

// NewKeyringTokenStore returns a TokenStore backed by the OS keyring.
func NewKeyringTokenStore() TokenStore {
	return keyringTokenStore{}
}

// SaveToken implements [TokenStore].
func (keyringTokenStore) SaveToken(login, token string) error {
	return keyring.Set(keyringService, login, token)
}

// Token implements [TokenStore].
func (keyringTokenStore) Token(login string) (string, error) {
	return keyring.Get(keyringService, login)
}

// DeleteToken implements [TokenStore].
func (keyringTokenStore) DeleteToken(login string) error {
	return keyring.Delete(keyringService, login)
}
