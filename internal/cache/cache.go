// ABOUTME: Badger-backed local cache for last-known-good snapshots.
// ABOUTME: Also holds the single install-prompt dismissal timestamp.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

const (
	snapshotPrefix = "snapshot:"
	dismissedKey   = "install_prompt_dismissed_at"

	// DismissalWindow is how long an install-prompt dismissal suppresses
	// the next prompt.
	DismissalWindow = 7 * 24 * time.Hour
)

// Cache is the local key-value cache. Snapshots are refetchable copies of
// remote collections; the remote store stays the source of truth.
type Cache struct {
	db *badger.DB
}

// Open opens or creates the cache at the given directory.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func snapshotKey(userID, collection string) []byte {
	return []byte(snapshotPrefix + userID + ":" + collection)
}

// PutSnapshot stores the latest successful copy of a collection for a user.
func (c *Cache) PutSnapshot(userID, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(userID, collection), data)
	})
}

// GetSnapshot loads the cached copy of a collection into dest. Returns
// false without error when no snapshot exists.
func (c *Cache) GetSnapshot(userID, collection string, dest any) (bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(userID, collection))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return true, nil
}

// ClearUser removes all snapshots belonging to a user. Called on logout.
func (c *Cache) ClearUser(userID string) error {
	prefix := []byte(snapshotPrefix + userID + ":")
	return c.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// DismissInstallPrompt records that the user dismissed the install prompt.
func (c *Cache) DismissInstallPrompt(now time.Time) error {
	data, err := now.UTC().MarshalText()
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dismissedKey), data)
	})
}

// ShouldShowInstallPrompt reports whether the install prompt may be shown.
// A dismissal suppresses the prompt for DismissalWindow.
func (c *Cache) ShouldShowInstallPrompt(now time.Time) (bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dismissedKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read dismissal: %w", err)
	}

	var dismissed time.Time
	if err := dismissed.UnmarshalText(data); err != nil {
		// Unreadable flag falls back to prompting.
		return true, nil
	}
	return now.Sub(dismissed) >= DismissalWindow, nil
}
