// pkg/memmgr/block.go
package memmgr

import (
	"unsafe"

	"vma/internal/glist"
)

// blockHeader is the inline metadata for one block/meta-block span inside
// a data page's arena: a header followed by its payload. isFree, size and
// offset are the bookkeeping fields kept in-band alongside each block;
// prev/next thread the intra-page chain in address (here: offset) order;
// glue is the embedded glue node used to thread the block into its
// record's free-block priority chain while it is free.
type blockHeader struct {
	isFree bool
	size   int // data_block_size: payload bytes following this header
	offset int // diagnostic byte offset from the page base to this header

	prev, next *blockHeader // intra-page chain, strictly increasing offset
	page       *dataPage    // back-reference, used by page_of

	payload []byte // slice of page.arena backing this block's payload
	glue    freeNode
}

// freeNode is the glue-node type specialized to blockHeader; kept as a
// named alias so the free-chain comparator and glist wiring read cleanly
// at call sites instead of repeating the generic instantiation everywhere.
type freeNode = glist.Node[blockHeader]

// freeChain is the per-record free-block priority chain: a glist.List
// ordered by descending data_block_size, ties keeping insertion order.
type freeChain = glist.List[blockHeader]

// freeChainCompare ranks free blocks by descending size: a larger
// data_block_size ranks higher (placed earlier).
func freeChainCompare(a, b *blockHeader) int {
	switch {
	case a.size > b.size:
		return -1
	case a.size < b.size:
		return 1
	default:
		return 0
	}
}

// blockHeaderSize is S, the size of a block's inline metadata, derived
// from the real struct layout (recorded in DESIGN.md) rather than a
// hand-picked constant.
var blockHeaderSize = int(unsafe.Sizeof(blockHeader{}))

// pageHeaderOverhead is the size of the page-level header fields that
// precede the embedded first block header: the owning record's
// back-pointer and the sibling links threading the record's data-page
// list.
var pageHeaderOverhead = int(unsafe.Sizeof(pageLinks{}))

// pageLinks mirrors the three pointer fields that sit ahead of the first
// block header in a data page, purely so pageHeaderOverhead can be
// derived from a real struct instead of guessed.
type pageLinks struct {
	record     uintptr
	prev, next uintptr
}

// payloadCapacity returns the number of payload bytes available to a
// single block spanning the entirety of a fresh page of the given size:
// page_size minus the page-level header fields minus one block header.
func payloadCapacity(pageSize int) int {
	return pageSize - pageHeaderOverhead - blockHeaderSize
}

// slicePayload returns the byte slice of the page's arena backing a
// block's payload, given its offset and size.
func slicePayload(page *dataPage, offset, size int) []byte {
	start := offset + blockHeaderSize
	return page.arena[start : start+size]
}

// nextBlockOffset is next_by_size(h): the offset one past this block's
// header and payload, i.e. the offset its physical successor would start
// at if the arena were fully packed with no invisible slack.
func nextBlockOffset(h *blockHeader) int {
	return h.offset + blockHeaderSize + h.size
}

// pageEndOffset is the offset one past the last usable byte of a page's
// arena.
func pageEndOffset(page *dataPage) int {
	return len(page.arena)
}
