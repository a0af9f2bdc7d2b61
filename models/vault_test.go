package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_CloneIsDeep(t *testing.T) {
	original := Vault{
		Version: 4,
		Entries: []VaultEntry{
			{
				ID:          "e1",
				Title:       "mail",
				Tags:        []string{"email"},
				Attachments: []Attachment{{ID: "a1", Name: "scan.pdf"}},
			},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Entries[0].Title = "changed"
	clone.Entries[0].Tags[0] = "changed"
	clone.Entries[0].Attachments[0].Name = "changed"
	clone.Entries = append(clone.Entries, VaultEntry{ID: "e2"})
	clone.Version = 99

	assert.Equal(t, int64(4), original.Version)
	require.Len(t, original.Entries, 1)
	assert.Equal(t, "mail", original.Entries[0].Title)
	assert.Equal(t, []string{"email"}, original.Entries[0].Tags)
	assert.Equal(t, "scan.pdf", original.Entries[0].Attachments[0].Name)
}

func TestVault_CloneOfEmptyVault(t *testing.T) {
	clone := Vault{}.Clone()
	assert.Nil(t, clone.Entries)
	assert.Equal(t, int64(0), clone.Version)
}

func TestVault_Add(t *testing.T) {
	v := Vault{}
	require.NoError(t, v.Add(VaultEntry{ID: "e1", Title: "mail"}))
	require.Len(t, v.Entries, 1)

	err := v.Add(VaultEntry{ID: "e1", Title: "duplicate"})
	assert.ErrorIs(t, err, ErrDuplicateEntryID)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "mail", v.Entries[0].Title)
}

func TestVault_Update(t *testing.T) {
	v := Vault{Entries: []VaultEntry{{ID: "e1", Title: "mail"}, {ID: "e2", Title: "bank"}}}

	require.NoError(t, v.Update(VaultEntry{ID: "e1", Title: "mail (edited)"}))
	assert.Equal(t, "mail (edited)", v.Entries[0].Title)

	assert.ErrorIs(t, v.Update(VaultEntry{ID: "missing"}), ErrEntryNotFound)
}

func TestVault_Remove(t *testing.T) {
	v := Vault{Entries: []VaultEntry{{ID: "e1"}, {ID: "e2"}}}

	require.NoError(t, v.Remove("e1"))
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "e2", v.Entries[0].ID)

	assert.ErrorIs(t, v.Remove("e1"), ErrEntryNotFound)
}

func TestVault_Find(t *testing.T) {
	v := Vault{Entries: []VaultEntry{{ID: "e1", Title: "mail"}}}

	found := v.Find("e1")
	require.NotNil(t, found)
	assert.Equal(t, "mail", found.Title)

	assert.Nil(t, v.Find("missing"))
}
