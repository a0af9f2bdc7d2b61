package utils

import "github.com/google/uuid"

// NewUUID returns a random (version 4) UUID string. Used for session IDs,
// device IDs and derived conflict-duplicate entry IDs.
func NewUUID() string {
	return uuid.NewString()
}

// ShortID returns the first 8 characters of a random UUID. Used as the
// suffix when a keep-both merge resolution needs a derived, collision-free
// entry ID.
func ShortID() string {
	return uuid.NewString()[:8]
}
