// pkg/memmgr/registry.go
package memmgr

import (
	"bytes"
	"unsafe"

	"vma/internal/glist"
)

// MaxStructNameSize bounds a registered record's name, mirroring
// spec.md §6. Names longer than this are truncated at registration.
const MaxStructNameSize = 32

// Registration result sentinels (spec.md §4.3 / §7).
const (
	RegisterOK         = 0
	ErrElementTooLarge = -1
	ErrDuplicateRecord = -2
)

// recordDescriptor is a registered record's bookkeeping: its bounded
// name, element size, the head of its data-page list, and its
// free-block priority chain. Created by Register, never destroyed.
type recordDescriptor struct {
	name     [MaxStructNameSize]byte
	elemSize int
	pages    *dataPage
	free     freeChain
}

// Name returns the descriptor's name with trailing padding trimmed.
func (d *recordDescriptor) Name() string {
	i := bytes.IndexByte(d.name[:], 0)
	if i < 0 {
		i = len(d.name)
	}
	return string(d.name[:i])
}

func boundedName(name string) [MaxStructNameSize]byte {
	var buf [MaxStructNameSize]byte
	copy(buf[:], name)
	return buf
}

func sameName(d *recordDescriptor, name string) bool {
	bounded := boundedName(name)
	return bytes.Equal(d.name[:], bounded[:])
}

// registryPage holds a fixed-capacity array of record descriptors plus
// a next-pointer threading the registry spine, sized (via
// maxRecordsPerPage) to the number of descriptors spec.md §4.3's
// MAX_RECORDS_PER_VM_PAGE would fit in one OS page. The slot storage
// itself is a plain Go slice, not bytes carved out of a real mmap'd
// page: recordDescriptor holds live Go pointers (pages *dataPage, the
// free-chain's glist.List head/tail *glist.Node), and Go's garbage
// collector never scans raw mmap'd memory for pointer roots, so placing
// a pointer-bearing struct there would leave those pointers invisible to
// the collector and unsafe to dereference. Registry pages still persist
// for the process lifetime exactly as spec.md requires; they are simply
// ordinary Go-heap allocations sized to mirror the real one-page cost,
// the same translation spec.md §9 calls for elsewhere in this package
// (arena-indexed/offset-based references instead of literal pointer
// arithmetic on OS pages).
type registryPage struct {
	slots []recordDescriptor
	used  int
	next  *registryPage
}

// registry is the spine of registry pages, one per Manager.
type registry struct {
	pageSize int
	head     *registryPage
}

func newRegistry(gw *Gateway) *registry {
	return &registry{pageSize: gw.PageSize()}
}

// maxRecordsPerPage derives MAX_RECORDS_PER_VM_PAGE: the number of
// descriptors, plus one next-pointer, that fit inside a single page.
func (r *registry) maxRecordsPerPage() int {
	var d recordDescriptor
	var next uintptr
	capacity := (uintptr(r.pageSize) - unsafe.Sizeof(next)) / unsafe.Sizeof(d)
	if capacity == 0 {
		capacity = 1
	}
	return int(capacity)
}

// Lookup linear-scans the spine for a descriptor with a bounded-matching
// name, returning nil if absent.
func (r *registry) Lookup(name string) *recordDescriptor {
	var found *recordDescriptor
	r.Each(func(d *recordDescriptor) bool {
		if sameName(d, name) {
			found = d
			return false
		}
		return true
	})
	return found
}

// Each walks every descriptor in the spine, newest registry page first.
// Stops early if fn returns false. Used by Lookup and the diagnostics.
func (r *registry) Each(fn func(*recordDescriptor) bool) {
	for page := r.head; page != nil; page = page.next {
		for i := range page.slots[:page.used] {
			if !fn(&page.slots[i]) {
				return
			}
		}
	}
}

// Register adds a new record descriptor, growing the spine with a fresh
// registry page if the current head is full. Returns RegisterOK,
// ErrElementTooLarge, or ErrDuplicateRecord per spec.md §4.3.
func (r *registry) Register(name string, size int) int {
	if size > r.pageSize {
		return ErrElementTooLarge
	}
	if r.Lookup(name) != nil {
		return ErrDuplicateRecord
	}

	if r.head == nil || r.head.used >= len(r.head.slots) {
		capacity := r.maxRecordsPerPage()
		page := &registryPage{
			slots: make([]recordDescriptor, capacity),
			next:  r.head,
		}
		r.head = page
	}

	slot := &r.head.slots[r.head.used]
	slot.name = boundedName(name)
	slot.elemSize = size
	slot.pages = nil
	slot.free = glist.List[blockHeader]{}
	r.head.used++
	return RegisterOK
}
