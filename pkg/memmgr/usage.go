// pkg/memmgr/usage.go
package memmgr

import "sync"

// usageTracker counts mapped data pages per record. Adapted from the
// teacher's pkg/cache.MemoryBudget: the same
// mutex-guarded-map-of-components shape, repurposed from cross-cache
// pressure accounting to the per-record page counts backing
// PrintMemoryUsage's pages= column. The pressure-threshold/callback machinery from the
// original has no equivalent here — the allocator never refuses a
// request for being "too full", only for being too large or OOM — so it
// was not carried over (DESIGN.md).
type usageTracker struct {
	mu    sync.RWMutex
	pages map[string]int // record name -> mapped page count
}

func newUsageTracker() *usageTracker {
	return &usageTracker{pages: make(map[string]int)}
}

func (u *usageTracker) recordPageMapped(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pages[name]++
}

func (u *usageTracker) recordPageReleased(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pages[name] > 0 {
		u.pages[name]--
	}
}

func (u *usageTracker) mappedPages(name string) int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.pages[name]
}
