package status

import "sync"

// Cache is the shared status store. Writers are serialized; readers get
// copies, never aliases into writer-side state, so a read can never observe
// a mix of two different sweeps.
type Cache struct {
	mu      sync.RWMutex
	entries Snapshot
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(Snapshot)}
}

// Replace swaps in a whole sweep's snapshot. Concurrent replaces are
// serialized; the last committed snapshot wins.
func (c *Cache) Replace(snapshot Snapshot) {
	entries := make(Snapshot, len(snapshot))
	for addr, hs := range snapshot {
		entries[addr] = hs
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

// Put merges a single host's entry into the current snapshot. Used by
// single-host sweeps so they cannot erase other hosts' entries.
func (c *Cache) Put(hs HostStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make(Snapshot, len(c.entries)+1)
	for addr, existing := range c.entries {
		entries[addr] = existing
	}
	entries[hs.Host.Address] = hs
	c.entries = entries
}

// Get returns the cached status for one address.
func (c *Cache) Get(address string) (HostStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hs, ok := c.entries[address]
	return hs, ok
}

// All returns a copy of the current snapshot.
func (c *Cache) All() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Snapshot, len(c.entries))
	for addr, hs := range c.entries {
		out[addr] = hs
	}
	return out
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
