package models

import "time"

// SessionStatus is the lifecycle state of a DeviceSession.
type SessionStatus string

const (
	// SessionActive is the only status under which a session authenticates
	// requests.
	SessionActive SessionStatus = "active"

	// SessionRevoked marks a session explicitly terminated, e.g. because its
	// bound device was removed.
	SessionRevoked SessionStatus = "revoked"

	// SessionReplaced marks a session superseded by a newer login for the
	// same account. ReplacedBySessionID points at the successor for audit.
	SessionReplaced SessionStatus = "replaced"
)

// Well-known revocation reasons recorded on terminated sessions.
const (
	RevokeReasonDeviceRemoved = "device_removed"
	RevokeReasonNewLogin      = "new_login"
	RevokeReasonUserLogout    = "user_logout"
)

// DeviceSession is one login session, optionally bound to a device identity.
// A session starts unbound; the first authenticated request carrying a device
// identifier binds it permanently: a session can never rebind to a different
// device. Creating a new session for an account marks all other active
// sessions replaced, enforcing single-active-session-per-account semantics
// while preserving audit lineage.
type DeviceSession struct {
	// ID is the session identifier (UUID). It doubles as the "jti" claim of
	// the bearer token issued for this session.
	ID string `json:"id"`

	AccountID int64 `json:"account_id"`

	// DeviceID is empty until the session is bound.
	DeviceID string `json:"device_id,omitempty"`

	Status SessionStatus `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`

	// RevokedReason is one of the RevokeReason constants when set.
	RevokedReason string `json:"revoked_reason,omitempty"`

	// ReplacedBySessionID links a replaced session to its successor.
	ReplacedBySessionID string `json:"replaced_by_session_id,omitempty"`
}

// IsBound reports whether the session has a permanent device binding.
func (s DeviceSession) IsBound() bool {
	return s.DeviceID != ""
}
