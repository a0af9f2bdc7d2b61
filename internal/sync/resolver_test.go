package sync

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safenode/vaultsync/models"
)

func fixedResolve(r models.Resolution) ResolveFunc {
	return func(models.Conflict) models.Resolution { return r }
}

func TestMerge_VersionIsOnePastTheLargerSide(t *testing.T) {
	merged, err := Merge(vaultOf(3), vaultOf(7), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), merged.Version)

	merged, err = Merge(vaultOf(9), vaultOf(2), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), merged.Version)
}

func TestMerge_ResolutionChoices(t *testing.T) {
	local := entry("a", "local title", 2*time.Hour)
	server := entry("a", "server title", time.Hour)
	conflict := []models.Conflict{{
		Kind:    models.ConflictBothModified,
		EntryID: "a",
		Local:   &local,
		Server:  &server,
	}}

	t.Run("local wins", func(t *testing.T) {
		merged, err := Merge(vaultOf(1, local), vaultOf(2, server), conflict, fixedResolve(models.ResolutionLocal))
		require.NoError(t, err)
		require.Len(t, merged.Entries, 1)
		assert.Equal(t, "local title", merged.Entries[0].Title)
	})

	t.Run("server wins", func(t *testing.T) {
		merged, err := Merge(vaultOf(1, local), vaultOf(2, server), conflict, fixedResolve(models.ResolutionServer))
		require.NoError(t, err)
		require.Len(t, merged.Entries, 1)
		assert.Equal(t, "server title", merged.Entries[0].Title)
	})

	t.Run("keep both gives the loser a derived id", func(t *testing.T) {
		merged, err := Merge(vaultOf(1, local), vaultOf(2, server), conflict, fixedResolve(models.ResolutionBoth))
		require.NoError(t, err)
		require.Len(t, merged.Entries, 2)

		// The server copy is newer, so it keeps the original id.
		assert.Equal(t, "a", merged.Entries[0].ID)
		assert.Equal(t, "server title", merged.Entries[0].Title)
		assert.True(t, strings.HasPrefix(merged.Entries[1].ID, "a-conflict-"))
		assert.Equal(t, "local title", merged.Entries[1].Title)
	})

	t.Run("unknown resolution aborts the merge", func(t *testing.T) {
		_, err := Merge(vaultOf(1, local), vaultOf(2, server), conflict, fixedResolve(models.Resolution(42)))
		assert.ErrorIs(t, err, ErrUnknownResolution)
	})
}

func TestMerge_DeletionConflicts(t *testing.T) {
	serverOnly := entry("gone", "still on server", time.Hour)
	conflict := []models.Conflict{{
		Kind:    models.ConflictDeletedLocally,
		EntryID: "gone",
		Server:  &serverOnly,
	}}

	t.Run("choosing local honors the deletion", func(t *testing.T) {
		merged, err := Merge(vaultOf(1), vaultOf(2, serverOnly), conflict, fixedResolve(models.ResolutionLocal))
		require.NoError(t, err)
		assert.Empty(t, merged.Entries)
	})

	t.Run("choosing server keeps the entry", func(t *testing.T) {
		merged, err := Merge(vaultOf(1), vaultOf(2, serverOnly), conflict, fixedResolve(models.ResolutionServer))
		require.NoError(t, err)
		require.Len(t, merged.Entries, 1)
		assert.Equal(t, "gone", merged.Entries[0].ID)
	})
}

func TestMerge_OneSidedEntriesOutsideWindowCarryOver(t *testing.T) {
	localOnly := entry("mine", "local", 48*time.Hour)
	serverOnly := entry("theirs", "server", 48*time.Hour)

	merged, err := Merge(vaultOf(2, localOnly), vaultOf(3, serverOnly), nil, nil)
	require.NoError(t, err)
	require.Len(t, merged.Entries, 2)
	assert.Equal(t, "theirs", merged.Entries[0].ID)
	assert.Equal(t, "mine", merged.Entries[1].ID)
}

func TestMergeEntries_FieldWise(t *testing.T) {
	older := models.VaultEntry{
		ID:        "a",
		Category:  models.CategoryPassword,
		Title:     "mail",
		Username:  "alice@example.com",
		URL:       "https://mail.example.com",
		Tags:      []string{"email", "personal"},
		CreatedAt: 100,
		UpdatedAt: 200,
	}
	newer := models.VaultEntry{
		ID:        "a",
		Category:  models.CategoryPassword,
		Title:     "mail (rotated)",
		Password:  "new-secret",
		Tags:      []string{"email", "rotated"},
		CreatedAt: 150,
		UpdatedAt: 300,
	}

	merged := mergeEntries(older, newer)

	// The newer side wins populated fields, empty fields backfill.
	assert.Equal(t, "mail (rotated)", merged.Title)
	assert.Equal(t, "new-secret", merged.Password)
	assert.Equal(t, "alice@example.com", merged.Username)
	assert.Equal(t, "https://mail.example.com", merged.URL)

	assert.Equal(t, []string{"email", "personal", "rotated"}, merged.Tags)
	assert.Equal(t, int64(100), merged.CreatedAt)
	assert.Equal(t, int64(300), merged.UpdatedAt)
}

func TestMergeEntries_IsSymmetric(t *testing.T) {
	a := models.VaultEntry{ID: "x", Title: "a", Username: "u", Tags: []string{"t1"}, CreatedAt: 1, UpdatedAt: 10}
	b := models.VaultEntry{ID: "x", Title: "b", Notes: "n", Tags: []string{"t2"}, CreatedAt: 2, UpdatedAt: 20}

	assert.Equal(t, mergeEntries(a, b), mergeEntries(b, a))
}

func TestMergeEntries_IsIdempotent(t *testing.T) {
	a := models.VaultEntry{ID: "x", Title: "a", Username: "u", Tags: []string{"t2", "t1"}, CreatedAt: 1, UpdatedAt: 10}
	b := models.VaultEntry{ID: "x", Title: "b", Notes: "n", Tags: []string{"t3"}, CreatedAt: 2, UpdatedAt: 20}

	once := mergeEntries(a, b)
	twice := mergeEntries(once, b)
	assert.Equal(t, once, twice)
}

func TestDefaultResolve(t *testing.T) {
	assert.Equal(t, models.ResolutionMerge, DefaultResolve(models.Conflict{Kind: models.ConflictBothModified}))
	assert.Equal(t, models.ResolutionServer, DefaultResolve(models.Conflict{Kind: models.ConflictDeletedLocally}))
	assert.Equal(t, models.ResolutionLocal, DefaultResolve(models.Conflict{Kind: models.ConflictDeletedServer}))
}
