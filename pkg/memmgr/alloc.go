// pkg/memmgr/alloc.go
package memmgr

// Xcalloc allocates units elements of the named record and returns a
// zero-filled payload slice, or nil if the record is unregistered, the
// request exceeds one page's payload capacity, or the OS refuses a new
// page.
func (m *Manager) Xcalloc(name string, units uint32) []byte {
	record := m.registry.Lookup(name)
	if record == nil {
		return nil
	}

	req := int(units) * record.elemSize
	capacity := payloadCapacity(m.gateway.PageSize())
	if req > capacity {
		return nil
	}

	candidate := record.free.Front()
	if candidate == nil || candidate.size < req {
		page, err := newDataPage(m.gateway, record)
		if err != nil {
			return nil
		}
		attachHead(record, page)
		m.usage.recordPageMapped(name)
		candidate = page.first
	}

	split(record, candidate, req)

	for i := range candidate.payload {
		candidate.payload[i] = 0
	}

	m.track(candidate)
	m.auditIfStrict(name)
	return candidate.payload
}

// split shrinks b to req bytes and marks it allocated. Depending on the
// remainder, either nothing new is created (exact fit, or a remainder
// too small to host another header and at least one payload byte) or a
// new free block is spliced in immediately after b.
func split(record *recordDescriptor, b *blockHeader, req int) {
	b.isFree = false
	record.free.Remove(&b.glue)

	rem := b.size - req
	b.size = req
	b.payload = slicePayload(b.page, b.offset, b.size)

	s := blockHeaderSize
	switch {
	case rem == 0:
		// Exact fit, nothing new.
	case rem <= s:
		// Hard internal fragmentation: no room for a header and at
		// least one payload byte. These bytes are invisible until
		// Xfree re-absorbs them.
	default:
		// Remainder can host a header plus at least one payload byte:
		// split off a new free block.
		f := &blockHeader{
			isFree: true,
			size:   rem - s,
			offset: b.offset + s + b.size,
			page:   b.page,
			prev:   b,
			next:   b.next,
		}
		f.payload = slicePayload(f.page, f.offset, f.size)
		if b.next != nil {
			b.next.prev = f
		}
		b.next = f
		record.free.Insert(&f.glue, f, freeChainCompare)
	}
}
