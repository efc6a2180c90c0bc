// pkg/memmgr/page.go
package memmgr

// dataPage is one OS page owned by exactly one record descriptor: a
// back-pointer to that record, sibling links threading the record's
// data-page list, the raw arena backing the page, and the first block
// header (physically "part of the page header" per spec.md §4.4, here
// the struct field that starts the intra-page chain).
type dataPage struct {
	record     *recordDescriptor
	prev, next *dataPage
	arena      []byte
	first      *blockHeader
}

// newDataPage requests a single fresh page from the gateway and lays out
// its header: one block spanning the full payload capacity, free, with
// no intra-page neighbours.
func newDataPage(gw *Gateway, record *recordDescriptor) (*dataPage, error) {
	arena, err := gw.RequestPages(1)
	if err != nil {
		return nil, err
	}

	page := &dataPage{record: record, arena: arena}
	capacity := payloadCapacity(len(arena))
	first := &blockHeader{
		isFree: true,
		size:   capacity,
		offset: pageHeaderOverhead,
		page:   page,
	}
	first.payload = slicePayload(page, first.offset, first.size)
	page.first = first
	return page, nil
}

// isEmpty reports whether a page's only block is the first block, free,
// with no intra-page neighbours (I6: such a page must not be retained).
func (p *dataPage) isEmpty() bool {
	return p.first.isFree && p.first.prev == nil && p.first.next == nil
}

// detach unlinks p from its record's data-page list.
func (p *dataPage) detach() {
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		p.record.pages = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	}
	p.prev, p.next = nil, nil
}

// attachHead prepends p to record's data-page list, matching spec.md
// §4.5 step 3's "attach at the head of the record's data-page list".
func attachHead(record *recordDescriptor, p *dataPage) {
	p.next = record.pages
	if record.pages != nil {
		record.pages.prev = p
	}
	record.pages = p
}
