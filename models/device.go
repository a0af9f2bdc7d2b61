package models

import "time"

// Device is the trust record for one physical device of an account. A device
// is created active on first registration and soft-deleted on removal
// (IsActive=false, RequiresReapproval=true); never hard-deleted, so prior
// bindings stay auditable and the device can later be reapproved.
type Device struct {
	// AccountID is the owner account.
	AccountID int64 `json:"account_id"`

	// DeviceID is the client-generated opaque identifier of the device.
	DeviceID string `json:"device_id"`

	// Name is the user-visible device label (e.g. "work laptop").
	Name string `json:"name"`

	// Platform identifies the OS/form factor (e.g. "darwin", "android").
	Platform string `json:"platform"`

	// IsActive is false once the device has been removed.
	IsActive bool `json:"is_active"`

	// RequiresReapproval is set on removal. While set, plain re-registration
	// is refused; only an explicit approval from another active device
	// re-admits this one.
	RequiresReapproval bool `json:"requires_reapproval"`

	LastSeen     time.Time  `json:"last_seen"`
	RegisteredAt time.Time  `json:"registered_at"`
	RemovedAt    *time.Time `json:"removed_at,omitempty"`
}
