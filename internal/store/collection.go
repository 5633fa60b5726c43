// ABOUTME: Shared state slice for entity stores: items, loading, error.
// ABOUTME: Failed refreshes keep the last good items (stale-but-available).
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

// collection owns one entity's in-memory records. Each store embeds one;
// no state is shared across stores.
type collection struct {
	mu      sync.RWMutex
	items   []normalize.Record
	loading bool
	err     error
	stale   bool
	less    func(a, b normalize.Record) bool
}

// Items returns a copy of the current records.
func (c *collection) Items() []normalize.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]normalize.Record, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records currently held.
func (c *collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loading reports whether a fetch is in flight.
func (c *collection) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last operation error, if any.
func (c *collection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Stale reports whether the items were restored from the local cache
// rather than fetched from the remote store.
func (c *collection) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

func (c *collection) setLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

func (c *collection) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// replace atomically swaps in a fresh snapshot and clears the error slot.
func (c *collection) replace(items []normalize.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.err = nil
	c.stale = false
	c.resortLocked()
}

// restore swaps in cached items and marks them stale. The error slot is
// left untouched so callers still see why the refresh failed.
func (c *collection) restore(items []normalize.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.stale = true
	c.resortLocked()
}

// clear drops all local state without recording an error. Used on logout.
func (c *collection) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.err = nil
	c.loading = false
	c.stale = false
}

// insert adds one record and re-applies the canonical order. Re-sorting on
// every mutation keeps list order independent of completion order when
// several creates race.
func (c *collection) insert(rec normalize.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, rec)
	c.err = nil
	c.resortLocked()
}

// replaceByID swaps the record with the same id, if present.
func (c *collection) replaceByID(id string, rec normalize.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if recordString(it, "id") == id {
			c.items[i] = rec
			break
		}
	}
	c.err = nil
	c.resortLocked()
}

// removeByID drops the record with the given id, if present.
func (c *collection) removeByID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if recordString(it, "id") == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.err = nil
}

func (c *collection) resortLocked() {
	if c.less == nil {
		return
	}
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.less(c.items[i], c.items[j])
	})
}

// recordString reads a string field from a record.
func recordString(rec normalize.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

// recordFloat reads a numeric field from a record. JSON numbers arrive as
// float64; ints appear when records were built locally.
func recordFloat(rec normalize.Record, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// recordTime parses an RFC 3339 field from a record.
func recordTime(rec normalize.Record, key string) time.Time {
	s := recordString(rec, key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// byTimeDesc orders records newest-first on the given field.
func byTimeDesc(key string) func(a, b normalize.Record) bool {
	return func(a, b normalize.Record) bool {
		return recordTime(a, key).After(recordTime(b, key))
	}
}

// byFloatDesc orders records highest-first on the given field.
func byFloatDesc(key string) func(a, b normalize.Record) bool {
	return func(a, b normalize.Record) bool {
		return recordFloat(a, key) > recordFloat(b, key)
	}
}
