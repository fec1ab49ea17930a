package cache

import (
	"sync"
	"time"

	"github.com/clipnote/clipnote/internal/domain"
)

// Notes is the process-local read cache: one entry per owner holding that
// owner's full note sequence, already sorted by creation time descending.
//
// It is rebuilt from the remote store on demand and dropped wholesale after
// every successful mutation. No partial updates are ever applied, which
// keeps the invalidation rule idempotent and safe under interleaving.
type Notes struct {
	mu      sync.RWMutex
	entries map[string]entry // owner -> cached sequence
}

type entry struct {
	notes    []domain.Note
	cachedAt time.Time
}

// NewNotes creates an empty cache.
func NewNotes() *Notes {
	return &Notes{entries: make(map[string]entry)}
}

// Get returns a copy of the cached sequence for owner and whether the
// entry is fresh. Callers receive a copy so they can never mutate the
// cached backing array.
func (c *Notes) Get(owner string) ([]domain.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[owner]
	if !ok {
		return nil, false
	}
	out := make([]domain.Note, len(e.notes))
	copy(out, e.notes)
	return out, true
}

// Put replaces the cached sequence for owner.
func (c *Notes) Put(owner string, notes []domain.Note) {
	stored := make([]domain.Note, len(notes))
	copy(stored, notes)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[owner] = entry{notes: stored, cachedAt: time.Now()}
}

// Invalidate drops the cached sequence for owner so the next Get misses.
// Invalidating an absent entry is a no-op.
func (c *Notes) Invalidate(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, owner)
}

// CachedAt returns when the owner's entry was stored, or the zero time.
func (c *Notes) CachedAt(owner string) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[owner].cachedAt
}

// Owners returns the number of owners currently cached.
func (c *Notes) Owners() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
