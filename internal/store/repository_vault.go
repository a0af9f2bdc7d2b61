package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

const (
	insertSalt = `INSERT INTO vaults (account_id, salt)
    VALUES ($1, $2)
    ON CONFLICT (account_id) DO NOTHING;`

	selectSalt = `SELECT salt FROM vaults WHERE account_id = $1;`

	selectVault = `SELECT salt, ciphertext, iv, version
    FROM vaults
    WHERE account_id = $1;`

	// Compare-and-swap: the row is updated only while its version still
	// equals the pusher's asserted baseline. Zero rows affected means
	// another device won the race (or no salt row exists yet).
	putVault = `UPDATE vaults
    SET ciphertext = $3, iv = $4, version = $5, updated_at = NOW()
    WHERE account_id = $1 AND version = $2;`

	selectVaultVersion = `SELECT version FROM vaults WHERE account_id = $1;`
)

// vaultRepository is the PostgreSQL-backed implementation of
// [VaultRepository]. One row per account; the version column is the only
// synchronization point for concurrent pushes.
type vaultRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultRepository constructs a [VaultRepository] on the shared database
// handle.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSalt implements [VaultRepository]. The INSERT … ON CONFLICT DO
// NOTHING + re-SELECT pair makes salt creation effectively idempotent: the
// first writer's candidate lands, every concurrent caller reads it back.
func (r *vaultRepository) EnsureSalt(ctx context.Context, accountID int64, candidate []byte) ([]byte, error) {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, insertSalt, accountID, candidate); err != nil {
		log.Err(err).Str("func", "*vaultRepository.EnsureSalt").Msg("error inserting salt")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	var salt []byte
	if err := r.db.QueryRowContext(ctx, selectSalt, accountID).Scan(&salt); err != nil {
		log.Err(err).Str("func", "*vaultRepository.EnsureSalt").Msg("error reading salt back")
		return nil, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	return salt, nil
}

// GetLatest implements [VaultRepository]. A missing row, a salt-only row
// (version 0), or a row with empty ciphertext/iv all map to
// [ErrVaultNotFound]: an unreadable record must look absent to the client,
// not crash the server.
func (r *vaultRepository) GetLatest(ctx context.Context, accountID int64) (models.EncryptedVaultBlob, error) {
	log := logger.FromContext(ctx)

	var blob models.EncryptedVaultBlob
	row := r.db.QueryRowContext(ctx, selectVault, accountID)
	if err := row.Scan(&blob.Salt, &blob.Ciphertext, &blob.IV, &blob.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EncryptedVaultBlob{}, ErrVaultNotFound
		}
		log.Err(err).Str("func", "*vaultRepository.GetLatest").Msg("error scanning vault row")
		return models.EncryptedVaultBlob{}, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	if !blob.HasVault() {
		return models.EncryptedVaultBlob{}, ErrVaultNotFound
	}

	return blob, nil
}

// Put implements [VaultRepository]. On a zero-row update it distinguishes the
// two possible causes: no salt row at all ([ErrSaltNotIssued]) versus a
// version mismatch ([ErrVersionConflict]). Exactly one of two concurrent
// pushes with the same baseline succeeds; the loser re-pulls and re-merges.
func (r *vaultRepository) Put(ctx context.Context, accountID int64, ciphertext, iv []byte, expectedVersion int64) (int64, error) {
	log := logger.FromContext(ctx)

	newVersion := expectedVersion + 1
	res, err := r.db.ExecContext(ctx, putVault, accountID, expectedVersion, ciphertext, iv, newVersion)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.Put").Msg("error executing vault CAS update")
		return 0, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	if affected == 1 {
		return newVersion, nil
	}

	// CAS lost. Find out whether the account has a salt row at all.
	var current int64
	err = r.db.QueryRowContext(ctx, selectVaultVersion, accountID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrSaltNotIssued
	case err != nil:
		log.Err(err).Str("func", "*vaultRepository.Put").Msg("error reading current version")
		return 0, fmt.Errorf("%w: %v", ErrScanningRow, err)
	default:
		log.Warn().
			Int64("account_id", accountID).
			Int64("expected", expectedVersion).
			Int64("current", current).
			Msg("vault push rejected: stale baseline version")
		return 0, ErrVersionConflict
	}
}
