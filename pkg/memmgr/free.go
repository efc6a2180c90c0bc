// pkg/memmgr/free.go
package memmgr

// Xfree returns a payload previously handed back by Xcalloc to its
// record's free pool: it absorbs any hard-fragmentation slack, coalesces
// with free intra-page neighbours, and releases the hosting page back to
// the OS if it becomes entirely empty.
//
// payload must be a slice previously returned by Xcalloc and not yet
// freed; passing anything else panics, since there is no recoverable
// error path defined for that case.
func (m *Manager) Xfree(payload []byte) {
	h := m.headerFor(payload)
	if h == nil || h.isFree {
		panic(ErrDoubleFree)
	}
	defer m.auditIfStrict(h.page.record.Name())

	h.isFree = true

	absorbSlack(h)

	if h.next != nil && h.next.isFree {
		h.page.record.free.Remove(&h.next.glue)
		forwardCoalesce(h)
	}

	if h.prev != nil && h.prev.isFree {
		// Backward coalesce: h.prev is already linked into the free
		// chain but its key (size) is about to change, so it must be
		// removed before the resize and only re-linked once, after
		// both coalesces, with its final size (DESIGN.md Open
		// Question 2).
		prev := h.prev
		h.page.record.free.Remove(&prev.glue)
		h = backwardCoalesce(prev, h)
	}

	page := h.page
	if page.isEmpty() {
		page.detach()
		// Empty page: do not reinsert any block into the free chain.
		_ = m.gateway.ReleasePages(page.arena)
		m.usage.recordPageReleased(page.record.Name())
		return
	}

	page.record.free.Insert(&h.glue, h, freeChainCompare)
}

// absorbSlack re-attaches the hard-fragmentation bytes a prior split
// left unaccounted between h's payload and its physical successor (or
// the page end).
func absorbSlack(h *blockHeader) {
	var slack int
	if h.next != nil {
		slack = h.next.offset - nextBlockOffset(h)
	} else {
		slack = pageEndOffset(h.page) - nextBlockOffset(h)
	}
	h.size += slack
	h.payload = slicePayload(h.page, h.offset, h.size)
}

// forwardCoalesce merges h with its already-free intra-page successor.
// The caller has already removed h.next from the free chain.
func forwardCoalesce(h *blockHeader) {
	n := h.next
	h.size += blockHeaderSize + n.size
	h.next = n.next
	if n.next != nil {
		n.next.prev = h
	}
	h.payload = slicePayload(h.page, h.offset, h.size)
}

// backwardCoalesce merges prev with its already-free successor h. The
// caller has already removed prev from the free chain. Returns the
// merged block (prev), which becomes the candidate for final
// re-insertion or empty-page detection.
func backwardCoalesce(prev, h *blockHeader) *blockHeader {
	prev.size += blockHeaderSize + h.size
	prev.next = h.next
	if h.next != nil {
		h.next.prev = prev
	}
	prev.payload = slicePayload(prev.page, prev.offset, prev.size)
	return prev
}
