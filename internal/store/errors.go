package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers match against them with [errors.Is].
var (
	// ErrLoginAlreadyExists is returned when registering a user whose login
	// is already taken.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a user lookup matches no record.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrVaultNotFound is returned when an account has no vault blob yet, or
	// when the stored row carries no usable ciphertext (salt-only rows and
	// rows with undecodable binary fields are treated as absent, never as a
	// crash).
	ErrVaultNotFound = errors.New("vault was not found")

	// ErrVaultAlreadyExists is returned by the first-time init path when the
	// account already has a pushed vault.
	ErrVaultAlreadyExists = errors.New("vault already exists")

	// ErrSaltNotIssued is returned when a push arrives for an account that
	// never fetched a salt. Encrypting before a salt exists would make the
	// ciphertext unrecoverable, so such pushes are refused.
	ErrSaltNotIssued = errors.New("no salt issued for account")

	// ErrVersionConflict is returned when the optimistic-concurrency check
	// fails: the version the pusher asserted as its baseline no longer
	// matches the stored version, meaning another device pushed first.
	ErrVersionConflict = errors.New("vault version conflict occurred")

	// ErrDeviceNotFound is returned when a device lookup matches no row.
	ErrDeviceNotFound = errors.New("device was not found")

	// ErrDeviceAlreadyExists is returned when inserting a device row that
	// already exists for the account.
	ErrDeviceAlreadyExists = errors.New("device already exists")

	// ErrSessionNotFound is returned when a session lookup matches no row.
	ErrSessionNotFound = errors.New("session was not found")
)

// Low-level database operation errors, wrapped around driver failures before
// any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when a commit fails; the
	// transaction is considered rolled back at that point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
