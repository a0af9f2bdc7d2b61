// Package sync implements the client-side synchronization engine: conflict
// detection, merge resolution, and the pull-merge-push cycle against the
// vault server.
package sync

import (
	"time"

	"github.com/safenode/vaultsync/models"
)

// Policy tunes conflict classification.
type Policy struct {
	// RecencyWindow decides how a one-sided entry is read. An entry present
	// on only one side and modified within the window is ambiguous (deleted
	// on the other side, or created after its last sync?) and becomes a
	// conflict. Outside the window the benign reading wins: a server-only
	// entry is adopted, a local-only entry is kept.
	RecencyWindow time.Duration

	// Now is the clock, injectable for tests. Nil means time.Now.
	Now func() time.Time
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// recent reports whether a unix-millisecond timestamp falls within the
// recency window.
func (p Policy) recent(updatedAt int64) bool {
	if p.RecencyWindow <= 0 {
		return false
	}
	return p.now().UnixMilli()-updatedAt <= p.RecencyWindow.Milliseconds()
}

// DetectConflicts compares local and server vault states entry by entry and
// returns every divergence that needs a resolution decision. Entries that
// are byte-identical on both sides, and one-sided entries outside the
// recency window, produce no conflict.
func DetectConflicts(local, server models.Vault, policy Policy) []models.Conflict {
	var conflicts []models.Conflict

	serverByID := make(map[string]*models.VaultEntry, len(server.Entries))
	for i := range server.Entries {
		serverByID[server.Entries[i].ID] = &server.Entries[i]
	}

	localSeen := make(map[string]struct{}, len(local.Entries))
	for i := range local.Entries {
		localEntry := &local.Entries[i]
		localSeen[localEntry.ID] = struct{}{}

		serverEntry, onServer := serverByID[localEntry.ID]
		switch {
		case onServer && !localEntry.Equal(*serverEntry):
			conflicts = append(conflicts, models.Conflict{
				Kind:    models.ConflictBothModified,
				EntryID: localEntry.ID,
				Local:   localEntry,
				Server:  serverEntry,
			})
		case !onServer && policy.recent(localEntry.UpdatedAt):
			// Either deleted on the server or created here since the last
			// sync. Too fresh to discard silently.
			conflicts = append(conflicts, models.Conflict{
				Kind:    models.ConflictDeletedServer,
				EntryID: localEntry.ID,
				Local:   localEntry,
			})
		}
	}

	for i := range server.Entries {
		serverEntry := &server.Entries[i]
		if _, ok := localSeen[serverEntry.ID]; ok {
			continue
		}
		if policy.recent(serverEntry.UpdatedAt) {
			conflicts = append(conflicts, models.Conflict{
				Kind:    models.ConflictDeletedLocally,
				EntryID: serverEntry.ID,
				Server:  serverEntry,
			})
		}
	}

	return conflicts
}
