package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired = errors.New("token is expired")

	// ErrInvalidToken is returned for tokens that fail parsing or signature
	// verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionInvalidated is returned when a token references a session
	// that has been revoked or replaced by a newer login.
	ErrSessionInvalidated = errors.New("session has been invalidated")

	// ErrSessionDeviceMismatch is returned when a session already bound to
	// one device presents a different device identifier. Bindings are
	// permanent; the request fails closed.
	ErrSessionDeviceMismatch = errors.New("session is bound to a different device")

	// ErrDeviceNotRegistered is returned when a device-scoped request
	// carries a device identifier with no trust row.
	ErrDeviceNotRegistered = errors.New("device is not registered")

	// ErrDeviceReapprovalRequired is returned for removed devices: plain
	// re-registration is refused so a removed device cannot silently
	// re-admit itself; it must be approved from another active device.
	ErrDeviceReapprovalRequired = errors.New("device requires reapproval")

	// ErrDeviceLimitReached is returned when registering a new device would
	// exceed the account's device quota. Never raised on heartbeats or
	// re-registration of an already-active device.
	ErrDeviceLimitReached = errors.New("device limit reached")

	// ErrSelfRemoval is returned when a session tries to remove the device
	// it is itself bound to.
	ErrSelfRemoval = errors.New("cannot remove the current device")

	// ErrApproverNotTrusted is returned when the approving session's bound
	// device is not itself active.
	ErrApproverNotTrusted = errors.New("approving device is not active")

	// ErrVaultVersionInvalid is returned when a push carries a version that
	// cannot be a successor of any stored version (v < 1, or v != 1 on the
	// first-time init path).
	ErrVaultVersionInvalid = errors.New("invalid vault version")
)
