package models

import "errors"

// ErrEntryNotFound is returned by vault mutation helpers when the targeted
// entry ID does not exist in the vault.
var ErrEntryNotFound = errors.New("vault entry not found")

// ErrDuplicateEntryID is returned when adding an entry whose ID is already
// present in the vault. Entry IDs are unique within one vault.
var ErrDuplicateEntryID = errors.New("duplicate vault entry id")

// Vault is the decrypted collection of a user's secret entries plus a version
// counter. It exists only in client memory while the vault is unlocked and is
// never persisted in plaintext. Entry order is irrelevant for correctness but
// preserved for UX.
type Vault struct {
	Entries []VaultEntry `json:"entries"`

	// Version is a monotonically increasing integer, >= 1 once the vault has
	// been pushed at least once. The server stores it alongside the encrypted
	// blob and enforces compare-and-swap on it.
	Version int64 `json:"version"`
}

// Clone returns a deep copy of the vault. Sync computes merges into a fresh
// copy and swaps it in atomically, so the cached vault is never observed in a
// partially merged state.
func (v Vault) Clone() Vault {
	out := Vault{Version: v.Version}
	if v.Entries != nil {
		out.Entries = make([]VaultEntry, len(v.Entries))
		copy(out.Entries, v.Entries)
		for i := range out.Entries {
			if tags := v.Entries[i].Tags; tags != nil {
				out.Entries[i].Tags = append([]string(nil), tags...)
			}
			if atts := v.Entries[i].Attachments; atts != nil {
				out.Entries[i].Attachments = append([]Attachment(nil), atts...)
			}
		}
	}
	return out
}

// Find returns a pointer to the entry with the given ID, or nil.
func (v *Vault) Find(id string) *VaultEntry {
	for i := range v.Entries {
		if v.Entries[i].ID == id {
			return &v.Entries[i]
		}
	}
	return nil
}

// Add appends a new entry. Returns ErrDuplicateEntryID if the ID is taken.
func (v *Vault) Add(entry VaultEntry) error {
	if v.Find(entry.ID) != nil {
		return ErrDuplicateEntryID
	}
	v.Entries = append(v.Entries, entry)
	return nil
}

// Update replaces the entry with the same ID in place, preserving its
// position in the entry list.
func (v *Vault) Update(entry VaultEntry) error {
	for i := range v.Entries {
		if v.Entries[i].ID == entry.ID {
			v.Entries[i] = entry
			return nil
		}
	}
	return ErrEntryNotFound
}

// Remove deletes the entry with the given ID.
func (v *Vault) Remove(id string) error {
	for i := range v.Entries {
		if v.Entries[i].ID == id {
			v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
