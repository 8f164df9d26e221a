package keymap

import (
	"context"
	"fmt"

	"github.com/dshills/canvaskeys/internal/store"
)

// Storage keys, newest first.
const (
	// StorageKey holds the current binding map.
	StorageKey = "keybinds"

	// LegacyStorageKey held the previous map, which allowed a single label
	// string per action.
	LegacyStorageKey = "blueMarble_keybinds_v2"

	// OldestStorageKey is the earliest name of the legacy map.
	OldestStorageKey = "blueMarble_keybinds"
)

// StorageKeys returns every key bindings may live under, newest first.
func StorageKeys() []string {
	return []string{StorageKey, LegacyStorageKey, OldestStorageKey}
}

// Migration moves stored bindings from an older layout to a newer one.
type Migration struct {
	// Name identifies the migration in logs and errors.
	Name string

	// Description says what the migration does.
	Description string

	// Apply performs the migration. It reports whether anything changed.
	Apply func(ctx context.Context, st store.Store) (bool, error)
}

// MigrationError wraps a failed migration.
type MigrationError struct {
	Migration string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s: %v", e.Migration, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// DefaultMigrations returns the storage migrations in the order they must
// run.
func DefaultMigrations() []Migration {
	return []Migration{
		MigrationRename(OldestStorageKey, LegacyStorageKey,
			"rename the original storage key to the v2 name"),
		{
			Name:        "promote-legacy",
			Description: "upgrade single-label entries and move them to " + StorageKey,
			Apply:       promoteLegacy,
		},
	}
}

// MigrationRename creates a migration that moves the value stored under
// oldKey to newKey and clears oldKey. An existing value under newKey is
// newer and wins; the old value is dropped.
func MigrationRename(oldKey, newKey, description string) Migration {
	return Migration{
		Name:        "rename:" + oldKey,
		Description: description,
		Apply: func(ctx context.Context, st store.Store) (bool, error) {
			value, found, err := st.Get(ctx, oldKey)
			if err != nil {
				return false, fmt.Errorf("reading %s: %w", oldKey, err)
			}
			if !found {
				return false, nil
			}

			_, exists, err := st.Get(ctx, newKey)
			if err != nil {
				return false, fmt.Errorf("reading %s: %w", newKey, err)
			}
			if !exists {
				if err := st.Set(ctx, newKey, value); err != nil {
					return false, fmt.Errorf("writing %s: %w", newKey, err)
				}
			}

			if err := st.Delete(ctx, oldKey); err != nil {
				return false, fmt.Errorf("clearing %s: %w", oldKey, err)
			}
			return true, nil
		},
	}
}

// promoteLegacy upgrades the v2 map to arrays and stores it under the
// current key unless a current map already exists.
func promoteLegacy(ctx context.Context, st store.Store) (bool, error) {
	raw, found, err := st.Get(ctx, LegacyStorageKey)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", LegacyStorageKey, err)
	}
	if !found {
		return false, nil
	}

	_, exists, err := st.Get(ctx, StorageKey)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", StorageKey, err)
	}
	if !exists {
		upgraded, _, err := upgradeLegacy(raw)
		if err != nil {
			return false, err
		}
		if err := st.Set(ctx, StorageKey, upgraded); err != nil {
			return false, fmt.Errorf("writing %s: %w", StorageKey, err)
		}
	}

	if err := st.Delete(ctx, LegacyStorageKey); err != nil {
		return false, fmt.Errorf("clearing %s: %w", LegacyStorageKey, err)
	}
	return true, nil
}

// RunMigrations applies migrations in order and returns the names of those
// that changed the store. It stops at the first failure.
func RunMigrations(ctx context.Context, st store.Store, migrations []Migration) ([]string, error) {
	applied := make([]string, 0, len(migrations))
	for _, m := range migrations {
		changed, err := m.Apply(ctx, st)
		if err != nil {
			return applied, &MigrationError{Migration: m.Name, Err: err}
		}
		if changed {
			applied = append(applied, m.Name)
		}
	}
	return applied, nil
}
