package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// ErrUnknownField is returned when a copy request names a field the entry
// does not have.
var ErrUnknownField = errors.New("unknown entry field")

// Entries returns a snapshot of the unlocked vault's entries.
func (a *App) Entries() ([]models.VaultEntry, error) {
	if !a.Unlocked() {
		return nil, ErrLocked
	}
	return a.vault.Clone().Entries, nil
}

// Entry returns one entry by ID.
func (a *App) Entry(id string) (models.VaultEntry, error) {
	if !a.Unlocked() {
		return models.VaultEntry{}, ErrLocked
	}
	e := a.vault.Find(id)
	if e == nil {
		return models.VaultEntry{}, models.ErrEntryNotFound
	}
	return *e, nil
}

// AddEntry stamps identity and timestamps on the entry, stores it, and
// pushes eagerly. An unreachable server leaves the change queued.
func (a *App) AddEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	if !a.Unlocked() {
		return models.VaultEntry{}, ErrLocked
	}

	if entry.ID == "" {
		entry.ID = utils.NewUUID()
	}
	now := time.Now().UnixMilli()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := a.vault.Add(entry); err != nil {
		return models.VaultEntry{}, err
	}
	a.dirty = true

	if err := a.saveLocal(); err != nil {
		return models.VaultEntry{}, err
	}
	return entry, a.trySync(ctx)
}

// UpdateEntry replaces an existing entry, bumping its UpdatedAt.
func (a *App) UpdateEntry(ctx context.Context, entry models.VaultEntry) error {
	if !a.Unlocked() {
		return ErrLocked
	}

	entry.UpdatedAt = time.Now().UnixMilli()
	if err := a.vault.Update(entry); err != nil {
		return err
	}
	a.dirty = true

	if err := a.saveLocal(); err != nil {
		return err
	}
	return a.trySync(ctx)
}

// RemoveEntry deletes an entry by ID.
func (a *App) RemoveEntry(ctx context.Context, id string) error {
	if !a.Unlocked() {
		return ErrLocked
	}

	if err := a.vault.Remove(id); err != nil {
		return err
	}
	a.dirty = true

	if err := a.saveLocal(); err != nil {
		return err
	}
	return a.trySync(ctx)
}

// CopyField places one secret field of an entry on the system clipboard, so
// secrets never have to pass through the terminal scrollback.
func (a *App) CopyField(id, field string) error {
	entry, err := a.Entry(id)
	if err != nil {
		return err
	}

	value, err := entryField(entry, field)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(value)
}

func entryField(entry models.VaultEntry, field string) (string, error) {
	switch field {
	case "username":
		return entry.Username, nil
	case "password":
		return entry.Password, nil
	case "card-number":
		return entry.CardNumber, nil
	case "cvv":
		return entry.CVV, nil
	case "totp-secret":
		return entry.TOTPSecret, nil
	case "url":
		return entry.URL, nil
	case "notes":
		return entry.Notes, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
