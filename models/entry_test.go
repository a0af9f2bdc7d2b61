package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseEntry() VaultEntry {
	return VaultEntry{
		ID:        "e1",
		Category:  CategoryPassword,
		Title:     "mail",
		Username:  "alice",
		Password:  "s3cret",
		URL:       "https://mail.example.com",
		Notes:     "personal",
		Tags:      []string{"email", "personal"},
		CreatedAt: 1000,
		UpdatedAt: 2000,
	}
}

func TestVaultEntry_Equal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *VaultEntry)
		want   bool
	}{
		{
			name:   "identical",
			mutate: func(e *VaultEntry) {},
			want:   true,
		},
		{
			name:   "tag order is irrelevant",
			mutate: func(e *VaultEntry) { e.Tags = []string{"personal", "email"} },
			want:   true,
		},
		{
			name:   "different tag set",
			mutate: func(e *VaultEntry) { e.Tags = []string{"email", "work"} },
			want:   false,
		},
		{
			name:   "extra tag",
			mutate: func(e *VaultEntry) { e.Tags = append(e.Tags, "extra") },
			want:   false,
		},
		{
			name:   "different title",
			mutate: func(e *VaultEntry) { e.Title = "mail (work)" },
			want:   false,
		},
		{
			name:   "different password",
			mutate: func(e *VaultEntry) { e.Password = "other" },
			want:   false,
		},
		{
			name:   "different category",
			mutate: func(e *VaultEntry) { e.Category = CategoryNote },
			want:   false,
		},
		{
			name:   "different update timestamp",
			mutate: func(e *VaultEntry) { e.UpdatedAt = 3000 },
			want:   false,
		},
		{
			name: "attachment added",
			mutate: func(e *VaultEntry) {
				e.Attachments = []Attachment{{ID: "a1", Name: "scan.pdf", Size: 10}}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseEntry()
			b := baseEntry()
			tt.mutate(&b)
			assert.Equal(t, tt.want, a.Equal(b))
			assert.Equal(t, tt.want, b.Equal(a))
		})
	}
}

func TestVaultEntry_EqualComparesAttachmentsInOrder(t *testing.T) {
	a := baseEntry()
	a.Attachments = []Attachment{{ID: "a1"}, {ID: "a2"}}
	b := baseEntry()
	b.Attachments = []Attachment{{ID: "a2"}, {ID: "a1"}}

	assert.False(t, a.Equal(b))
}
