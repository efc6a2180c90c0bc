package memmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXfreeAbsorbsHardFragmentationSlack(t *testing.T) {
	m := New(Options{})
	// Pick an element size that leaves a remainder <= S after the first
	// split, so case 3 applies and the slack is only visible once freed.
	require.Equal(t, RegisterOK, m.Register("emp", payloadCapacity(m.PageSize())-1))

	p := m.Xcalloc("emp", 1)
	require.NotNil(t, p)

	rec := m.registry.Lookup("emp")
	require.Equal(t, 0, rec.free.Len(), "slack should not be its own free block yet")

	m.Xfree(p)
	require.Equal(t, 0, countPages(rec), "single live block freed on a single page reclaims it")
}

func TestXfreeForwardCoalesce(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	ptrs := make([][]byte, 3)
	for i := range ptrs {
		ptrs[i] = m.Xcalloc("emp", 1)
	}

	m.Xfree(ptrs[1])
	m.Xfree(ptrs[2])

	rec := m.registry.Lookup("emp")
	require.Equal(t, 1, rec.free.Len(), "tail two blocks plus any trailing slack should merge into one")

	head := rec.free.Front()
	require.GreaterOrEqual(t, head.size, 2*100+blockHeaderSize)
}

func TestXfreeBackwardCoalesce(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	ptrs := make([][]byte, 3)
	for i := range ptrs {
		ptrs[i] = m.Xcalloc("emp", 1)
	}

	// b0 and b1 are adjacent; b2 stays live so the merged pair cannot
	// also absorb the page's trailing free remainder.
	m.Xfree(ptrs[0])
	m.Xfree(ptrs[1])

	rec := m.registry.Lookup("emp")
	require.Equal(t, 2, rec.free.Len(), "trailing remainder plus the merged b0+b1 pair")

	wantMerged := 2*100 + blockHeaderSize
	var foundMerged bool
	rec.free.Each(func(h *blockHeader) bool {
		if h.size == wantMerged {
			foundMerged = true
		}
		return true
	})
	require.True(t, foundMerged, "expected a coalesced block of size %d spanning b0 and b1", wantMerged)
}

func TestXfreeDoubleFreePanics(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	p := m.Xcalloc("emp", 1)
	require.NotNil(t, p)
	m.Xfree(p)

	require.PanicsWithValue(t, ErrDoubleFree, func() {
		m.Xfree(p)
	})
}

func TestXfreeEmptyPageIsReleased(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	p := m.Xcalloc("emp", 1)
	rec := m.registry.Lookup("emp")
	require.Equal(t, 1, countPages(rec))

	m.Xfree(p)
	require.Equal(t, 0, countPages(rec))
	require.Equal(t, 0, m.usage.mappedPages("emp"))
}

func TestXfreeNonEmptyPageKeepsPageMapped(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	a := m.Xcalloc("emp", 1)
	b := m.Xcalloc("emp", 1)
	require.NotNil(t, a)
	require.NotNil(t, b)

	rec := m.registry.Lookup("emp")
	before := rec.free.Len()

	m.Xfree(a)

	require.Equal(t, 1, countPages(rec), "b is still live, page must stay mapped")
	require.Equal(t, before+1, rec.free.Len(), "a rejoins the free chain as its own block, not adjacent to b")
}
