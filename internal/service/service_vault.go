package service

import (
	"context"

	"github.com/safenode/vaultsync/internal/crypto"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/models"
)

// vaultService implements [VaultService]. It owns the version arithmetic of
// the push protocol: the client asserts the version it is moving to, and the
// store performs compare-and-swap against version-1.
type vaultService struct {
	logger *logger.Logger
	vaults store.VaultRepository
	cipher crypto.CipherService
}

// NewVaultService constructs a [VaultService]. The cipher service is used
// only for salt generation; the server never handles key material.
func NewVaultService(vaults store.VaultRepository, cipher crypto.CipherService, logger *logger.Logger) VaultService {
	logger.Debug().Msg("creating vault service")
	return &vaultService{
		logger: logger,
		vaults: vaults,
		cipher: cipher,
	}
}

// IssueSalt implements [VaultService]. The candidate is generated here and
// handed to the store, which keeps whichever candidate wins the insert race.
func (s *vaultService) IssueSalt(ctx context.Context, accountID int64) ([]byte, error) {
	candidate, err := s.cipher.GenerateSalt()
	if err != nil {
		return nil, err
	}

	salt, err := s.vaults.EnsureSalt(ctx, accountID, candidate)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*vaultService.IssueSalt").Msg("error ensuring salt")
		return nil, err
	}

	return salt, nil
}

// Init implements [VaultService]. Only version 1 is a valid first push; the
// compare-and-swap against stored version 0 rejects a second init.
func (s *vaultService) Init(ctx context.Context, accountID int64, ciphertext, iv []byte, version int64) (int64, error) {
	if len(ciphertext) == 0 || len(iv) == 0 {
		return 0, ErrInvalidDataProvided
	}
	if version != 1 {
		return 0, ErrVaultVersionInvalid
	}

	return s.put(ctx, accountID, ciphertext, iv, version)
}

// Save implements [VaultService].
func (s *vaultService) Save(ctx context.Context, accountID int64, ciphertext, iv []byte, version int64) (int64, error) {
	if len(ciphertext) == 0 || len(iv) == 0 {
		return 0, ErrInvalidDataProvided
	}
	if version < 1 {
		return 0, ErrVaultVersionInvalid
	}

	return s.put(ctx, accountID, ciphertext, iv, version)
}

func (s *vaultService) put(ctx context.Context, accountID int64, ciphertext, iv []byte, version int64) (int64, error) {
	newVersion, err := s.vaults.Put(ctx, accountID, ciphertext, iv, version-1)
	if err != nil {
		logger.FromContext(ctx).Info().
			Str("func", "*vaultService.put").
			Int64("account_id", accountID).
			Int64("pushed_version", version).
			Err(err).
			Msg("vault push rejected")
		return 0, err
	}

	return newVersion, nil
}

// Latest implements [VaultService].
func (s *vaultService) Latest(ctx context.Context, accountID int64) (models.EncryptedVaultBlob, error) {
	return s.vaults.GetLatest(ctx, accountID)
}
