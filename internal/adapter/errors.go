package adapter

import "errors"

// Sentinel errors mirroring the server's stable error codes. The sync engine
// branches on these to decide between merging, queueing, and giving up.
var (
	// ErrTransient marks failures worth retrying: network errors, timeouts,
	// and 5xx responses. Everything else is structural and must not be
	// retried blindly.
	ErrTransient = errors.New("transient server error")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionInvalidated = errors.New("session invalidated")
	ErrLoginTaken         = errors.New("login already taken")

	// ErrVersionConflict is the push rejection of the optimistic concurrency
	// protocol: another device advanced the vault first. The caller pulls,
	// merges, and pushes again.
	ErrVersionConflict = errors.New("vault version conflict")

	ErrVaultAlreadyExists = errors.New("vault already initialized")
	ErrVaultNotFound      = errors.New("no vault on server")
	ErrSaltNotIssued      = errors.New("salt not issued")

	ErrDeviceNotRegistered   = errors.New("device not registered")
	ErrReapprovalRequired    = errors.New("device requires reapproval")
	ErrDeviceLimitReached    = errors.New("device limit reached")
	ErrSessionDeviceMismatch = errors.New("session bound to a different device")
	ErrSelfRemoval           = errors.New("cannot remove the current device")
)
