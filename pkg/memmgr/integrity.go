// pkg/memmgr/integrity.go
package memmgr

import "fmt"

// IntegrityError reports a violated structural invariant found by
// Manager.CheckIntegrity: a "detect and report, don't repair" posture,
// since there is no on-disk format here to checksum — just the
// block/page invariants the allocator maintains.
type IntegrityError struct {
	Record  string
	Invariant string
	Message string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("vma: record %q violates %s: %s", e.Record, e.Invariant, e.Message)
}

// CheckIntegrity walks every live data page of the named record and
// verifies invariants I1-I4 and I6 (no empty page is retained), then
// checks that the record's free chain is ordered by non-increasing size
// (the ordering half of I4). It never mutates state. Intended as an
// opt-in debug aid (gated by Options / VMA_STRICT, see options.go):
// this is diagnostic, not a safety net the allocator relies on.
func (m *Manager) CheckIntegrity(name string) error {
	record := m.registry.Lookup(name)
	if record == nil {
		return nil
	}

	capacity := payloadCapacity(m.gateway.PageSize())

	for page := record.pages; page != nil; page = page.next {
		if err := checkArenaCoverage(name, page, capacity); err != nil {
			return err
		}
		if err := checkChainMonotonicity(name, page); err != nil {
			return err
		}
		if err := checkNoAdjacentFrees(name, page); err != nil {
			return err
		}
		if err := checkFreeChainMembership(name, page); err != nil {
			return err
		}
		if page.isEmpty() {
			return &IntegrityError{Record: name, Invariant: "I6", Message: "empty page was not reclaimed"}
		}
	}

	prevSize := -1
	var orderErr error
	record.free.Each(func(h *blockHeader) bool {
		if prevSize >= 0 && h.size > prevSize {
			orderErr = &IntegrityError{Record: name, Invariant: "I4", Message: "free chain is not ordered by non-increasing size"}
			return false
		}
		prevSize = h.size
		return true
	})
	return orderErr
}

// checkArenaCoverage verifies I1: header bytes plus payload bytes across
// the intra-page chain exactly cover the page's arena, with no gaps or
// overlaps beyond the accounted hard-fragmentation slack (which is
// itself folded into data_block_size once a block has been freed and
// re-absorbed at least once; a live, never-freed block may still carry
// invisible slack, so coverage is checked against the physical successor
// or page end exactly the way Xfree's slack absorption computes it).
func checkArenaCoverage(name string, page *dataPage, capacity int) error {
	h := page.first
	if h.offset != pageHeaderOverhead {
		return &IntegrityError{Record: name, Invariant: "I1", Message: "first block does not start at the page header boundary"}
	}
	for h != nil {
		end := nextBlockOffset(h)
		if h.next != nil {
			if end > h.next.offset {
				return &IntegrityError{Record: name, Invariant: "I1", Message: "block overruns its successor"}
			}
			if h.next.offset-end > blockHeaderSize {
				return &IntegrityError{Record: name, Invariant: "I1", Message: "gap before successor exceeds hard-fragmentation slack"}
			}
		} else if end > pageEndOffset(page) {
			return &IntegrityError{Record: name, Invariant: "I1", Message: "last block overruns the page end"}
		} else if pageEndOffset(page)-end > blockHeaderSize {
			return &IntegrityError{Record: name, Invariant: "I1", Message: "gap before page end exceeds hard-fragmentation slack"}
		}
		h = h.next
	}
	return nil
}

// checkChainMonotonicity verifies I2: strictly increasing offsets and
// consistent prev/next pointers.
func checkChainMonotonicity(name string, page *dataPage) error {
	for h := page.first; h != nil; h = h.next {
		if h.next != nil {
			if h.next.offset <= h.offset {
				return &IntegrityError{Record: name, Invariant: "I2", Message: "intra-page chain is not strictly increasing"}
			}
			if h.next.prev != h {
				return &IntegrityError{Record: name, Invariant: "I2", Message: "prev/next link mismatch"}
			}
		}
	}
	return nil
}

// checkNoAdjacentFrees verifies I3: coalescing is eager, so no two
// intra-page neighbours are ever both free.
func checkNoAdjacentFrees(name string, page *dataPage) error {
	for h := page.first; h != nil && h.next != nil; h = h.next {
		if h.isFree && h.next.isFree {
			return &IntegrityError{Record: name, Invariant: "I3", Message: "adjacent free blocks were not coalesced"}
		}
	}
	return nil
}

// checkFreeChainMembership verifies I4: a block is linked into the
// record's free chain iff its is_free flag is set.
func checkFreeChainMembership(name string, page *dataPage) error {
	for h := page.first; h != nil; h = h.next {
		if h.isFree != h.glue.Linked() {
			return &IntegrityError{Record: name, Invariant: "I4", Message: "is_free flag disagrees with free-chain membership"}
		}
	}
	return nil
}
