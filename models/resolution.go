package models

import "fmt"

// ConflictKind classifies how local and server states of one entry diverged.
type ConflictKind string

const (
	// ConflictBothModified: the entry exists on both sides with any field
	// (including UpdatedAt) differing.
	ConflictBothModified ConflictKind = "both_modified"

	// ConflictDeletedLocally: the entry exists only server-side and was
	// modified within the recency window. Ambiguous by nature: it was
	// either deleted locally or created remotely after the local device
	// last synced.
	ConflictDeletedLocally ConflictKind = "deleted_locally"

	// ConflictDeletedServer is the symmetric case: the entry exists only
	// locally and was modified within the recency window.
	ConflictDeletedServer ConflictKind = "deleted_server"
)

// Conflict is one per-entry divergence found by the detector. Local and
// Server are nil for the side that does not have the entry.
type Conflict struct {
	Kind    ConflictKind
	EntryID string
	Local   *VaultEntry
	Server  *VaultEntry
}

// Resolution is the closed set of per-conflict resolution choices. Modelling
// it as a dedicated type with exhaustive switch handling guarantees an
// unknown resolution can never reach storage.
type Resolution int

const (
	// ResolutionLocal keeps the local version of the entry and discards the
	// server's.
	ResolutionLocal Resolution = iota

	// ResolutionServer keeps the server version and discards the local one.
	ResolutionServer

	// ResolutionMerge combines both versions field-wise: prefer the
	// non-empty value, and among two non-empty values prefer the side with
	// the larger UpdatedAt; tags are unioned.
	ResolutionMerge

	// ResolutionBoth keeps both versions, assigning the losing entry a
	// derived ID to avoid collision.
	ResolutionBoth
)

// String implements fmt.Stringer.
func (r Resolution) String() string {
	switch r {
	case ResolutionLocal:
		return "local"
	case ResolutionServer:
		return "server"
	case ResolutionMerge:
		return "merge"
	case ResolutionBoth:
		return "both"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Valid reports whether r is a member of the closed union.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionLocal, ResolutionServer, ResolutionMerge, ResolutionBoth:
		return true
	default:
		return false
	}
}
