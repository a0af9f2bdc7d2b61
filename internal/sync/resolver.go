package sync

import (
	"errors"
	"fmt"
	"sort"

	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// ErrUnknownResolution is returned when a resolver produces a value outside
// the closed resolution set. The merge aborts rather than guess.
var ErrUnknownResolution = errors.New("unknown conflict resolution")

// ResolveFunc decides one conflict. Interactive clients prompt the user;
// the background job uses DefaultResolve.
type ResolveFunc func(models.Conflict) models.Resolution

// DefaultResolve is the no-data-loss policy used when nobody is around to
// ask: modified-on-both-sides entries are merged field-wise, and one-sided
// deletions within the recency window are read as creations, keeping the
// entry.
func DefaultResolve(conflict models.Conflict) models.Resolution {
	switch conflict.Kind {
	case models.ConflictDeletedLocally:
		return models.ResolutionServer
	case models.ConflictDeletedServer:
		return models.ResolutionLocal
	default:
		return models.ResolutionMerge
	}
}

// Merge builds the merged vault from both sides, the detected conflicts, and
// a resolver. The output version is one past the larger input version, so it
// is pushable against whichever side is ahead.
//
// Note on ResolutionBoth: which copy keeps the original ID depends on the
// entries' UpdatedAt, not on which side is "local", so two devices resolving
// the same conflict converge on the same winner.
func Merge(local, server models.Vault, conflicts []models.Conflict, resolve ResolveFunc) (models.Vault, error) {
	if resolve == nil {
		resolve = DefaultResolve
	}

	conflictByID := make(map[string]models.Conflict, len(conflicts))
	for _, c := range conflicts {
		conflictByID[c.EntryID] = c
	}

	merged := models.Vault{
		Version: max(local.Version, server.Version) + 1,
	}

	localByID := make(map[string]*models.VaultEntry, len(local.Entries))
	for i := range local.Entries {
		localByID[local.Entries[i].ID] = &local.Entries[i]
	}

	// Server order first for stability, then local-only entries.
	for i := range server.Entries {
		serverEntry := server.Entries[i]
		conflict, isConflict := conflictByID[serverEntry.ID]
		localEntry := localByID[serverEntry.ID]

		switch {
		case !isConflict && localEntry != nil:
			// Identical on both sides.
			merged.Entries = append(merged.Entries, serverEntry)
		case !isConflict:
			// Server-only outside the recency window: created remotely.
			merged.Entries = append(merged.Entries, serverEntry)
		default:
			resolved, err := applyResolution(conflict, resolve(conflict))
			if err != nil {
				return models.Vault{}, err
			}
			merged.Entries = append(merged.Entries, resolved...)
		}
	}

	serverSeen := make(map[string]struct{}, len(server.Entries))
	for i := range server.Entries {
		serverSeen[server.Entries[i].ID] = struct{}{}
	}
	for i := range local.Entries {
		localEntry := local.Entries[i]
		if _, ok := serverSeen[localEntry.ID]; ok {
			continue
		}
		conflict, isConflict := conflictByID[localEntry.ID]
		if !isConflict {
			// Local-only outside the recency window: kept.
			merged.Entries = append(merged.Entries, localEntry)
			continue
		}
		resolved, err := applyResolution(conflict, resolve(conflict))
		if err != nil {
			return models.Vault{}, err
		}
		merged.Entries = append(merged.Entries, resolved...)
	}

	return merged, nil
}

// applyResolution turns one conflict plus its resolution into zero, one, or
// two merged entries. The switch is exhaustive over the closed union.
func applyResolution(conflict models.Conflict, resolution models.Resolution) ([]models.VaultEntry, error) {
	switch resolution {
	case models.ResolutionLocal:
		if conflict.Local == nil {
			// Keeping "local" for a server-only entry keeps the deletion.
			return nil, nil
		}
		return []models.VaultEntry{*conflict.Local}, nil

	case models.ResolutionServer:
		if conflict.Server == nil {
			return nil, nil
		}
		return []models.VaultEntry{*conflict.Server}, nil

	case models.ResolutionMerge:
		if conflict.Local == nil {
			return []models.VaultEntry{*conflict.Server}, nil
		}
		if conflict.Server == nil {
			return []models.VaultEntry{*conflict.Local}, nil
		}
		return []models.VaultEntry{mergeEntries(*conflict.Local, *conflict.Server)}, nil

	case models.ResolutionBoth:
		if conflict.Local == nil {
			return []models.VaultEntry{*conflict.Server}, nil
		}
		if conflict.Server == nil {
			return []models.VaultEntry{*conflict.Local}, nil
		}
		winner, loser := *conflict.Local, *conflict.Server
		if winner.UpdatedAt < loser.UpdatedAt {
			winner, loser = loser, winner
		}
		loser.ID = fmt.Sprintf("%s-conflict-%s", loser.ID, utils.ShortID())
		return []models.VaultEntry{winner, loser}, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownResolution, resolution)
	}
}

// mergeEntries combines two versions of one entry field-wise: start from the
// side edited last, backfill empty fields from the other. Tags are unioned,
// CreatedAt keeps the earlier value, UpdatedAt the later one. Symmetric in
// its inputs, so repeated merges are stable.
func mergeEntries(a, b models.VaultEntry) models.VaultEntry {
	newer, older := a, b
	if newer.UpdatedAt < older.UpdatedAt {
		newer, older = older, newer
	}

	out := newer

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&out.Title, older.Title)
	fill(&out.Username, older.Username)
	fill(&out.Password, older.Password)
	fill(&out.CardNumber, older.CardNumber)
	fill(&out.CVV, older.CVV)
	fill(&out.TOTPSecret, older.TOTPSecret)
	fill(&out.URL, older.URL)
	fill(&out.Notes, older.Notes)
	if out.Category == "" {
		out.Category = older.Category
	}
	if len(out.Attachments) == 0 {
		out.Attachments = older.Attachments
	}

	out.Tags = unionTags(newer.Tags, older.Tags)
	if older.CreatedAt > 0 && (out.CreatedAt == 0 || older.CreatedAt < out.CreatedAt) {
		out.CreatedAt = older.CreatedAt
	}
	out.UpdatedAt = max(newer.UpdatedAt, older.UpdatedAt)

	return out
}

// unionTags merges two tag sets, sorted for deterministic output.
func unionTags(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
