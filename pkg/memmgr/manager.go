// pkg/memmgr/manager.go
package memmgr

import "unsafe"

// Options configures a Manager. The zero value is valid: strict
// integrity auditing defaults from the VMA_STRICT environment variable
// (see options.go).
type Options struct {
	// StrictIntegrity, if set, overrides the VMA_STRICT environment
	// default and forces the integrity auditor on or off explicitly.
	StrictIntegrity *bool
}

// Manager is the single value spec.md §9's "Global state" design note
// calls for in place of true process-wide globals: it owns the page
// gateway, the record registry, and the live-allocation index Xfree uses
// to recover a block header from a payload pointer.
type Manager struct {
	gateway  *Gateway
	registry *registry
	// live maps a payload's address to the header backing it, so Xfree
	// can recover it without pointer arithmetic. An entry is overwritten,
	// never deleted, on every reuse of its address (see headerFor), so
	// it is bounded by the number of distinct addresses this Manager has
	// ever handed back rather than the number of live allocations; in
	// practice that is bounded by address reuse across splits/coalesces
	// within a record's pages, not by allocation count.
	live   map[uintptr]*blockHeader
	usage  *usageTracker
	strict bool
}

// New constructs a Manager: reads the system page size via the Page
// Gateway and initializes an empty registry spine. This is the
// allocator's init() (spec.md §4.1) — call it once before any other
// operation.
func New(opts Options) *Manager {
	gw := NewGateway()
	m := &Manager{
		gateway:  gw,
		registry: newRegistry(gw),
		live:     make(map[uintptr]*blockHeader),
		usage:    newUsageTracker(),
		strict:   resolveStrict(opts),
	}
	return m
}

// Register declares a named record with a fixed element size. Returns
// RegisterOK, ErrElementTooLarge, or ErrDuplicateRecord (spec.md §4.3).
func (m *Manager) Register(name string, size int) int {
	return m.registry.Register(name, size)
}

// PageSize returns the system page size the Manager's gateway reported
// at construction.
func (m *Manager) PageSize() int {
	return m.gateway.PageSize()
}

func payloadKey(payload []byte) uintptr {
	if len(payload) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&payload[0]))
}

// track records that candidate's payload is now live, so a later Xfree
// of that exact slice can recover the header. This stands in for the
// pointer arithmetic (`h = p - sizeof(header)`) spec.md §4.6 step 1
// describes: Go offers no safe equivalent, so the header is recovered by
// indexing on the payload's address instead (DESIGN.md).
func (m *Manager) track(candidate *blockHeader) {
	m.live[payloadKey(candidate.payload)] = candidate
}

// headerFor recovers the header backing payload, without forgetting it:
// the entry is left in place (a later legitimate Xcalloc reusing this
// exact address overwrites it via track) so that a genuine double-free
// at the same address finds its now-free header and hits the assertion
// in Xfree, rather than finding nothing and panicking on a nil
// dereference. A payload that was never tracked at all (a foreign
// pointer) yields nil — spec.md defines no recoverable behaviour for
// that case beyond the double-free assertion.
func (m *Manager) headerFor(payload []byte) *blockHeader {
	return m.live[payloadKey(payload)]
}

// auditIfStrict runs the integrity auditor against name's current state
// when strict mode is on, panicking on the first violation found. This
// is the actual gate the VMA_STRICT toggle (options.go) controls: off by
// default so Xcalloc/Xfree pay nothing extra, on for deployments that
// want every mutation checked by CheckIntegrity, mirroring how the teacher's
// ChecksumEnabled flag (pkg/pager/corruption.go) gates a verification
// pass that only runs when explicitly turned on.
func (m *Manager) auditIfStrict(name string) {
	if !m.strict {
		return
	}
	if err := m.CheckIntegrity(name); err != nil {
		panic(err)
	}
}
