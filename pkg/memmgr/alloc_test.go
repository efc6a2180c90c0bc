package memmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestS1DuplicateRegistration mirrors spec.md §8 scenario S1.
func TestS1DuplicateRegistration(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))
	require.Equal(t, ErrDuplicateRecord, m.Register("emp", 100))
}

// TestS2FirstAllocation mirrors spec.md §8 scenario S2.
func TestS2FirstAllocation(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	p := m.Xcalloc("emp", 1)
	require.NotNil(t, p)
	require.Len(t, p, 100)
	for _, b := range p {
		require.Equal(t, byte(0), b)
	}

	rec := m.registry.Lookup("emp")
	require.NotNil(t, rec.pages)
	require.Nil(t, rec.pages.next, "exactly one data page should be mapped")

	head := rec.free.Front()
	require.NotNil(t, head)
	wantFreeSize := payloadCapacity(m.PageSize()) - 100 - blockHeaderSize
	require.Equal(t, wantFreeSize, head.size)
}

// TestS3FreeMiddleLeavesHole mirrors spec.md §8 scenario S3.
func TestS3FreeMiddleLeavesHole(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	ptrs := make([][]byte, 5)
	for i := range ptrs {
		ptrs[i] = m.Xcalloc("emp", 1)
		require.NotNil(t, ptrs[i])
	}

	m.Xfree(ptrs[2])

	rec := m.registry.Lookup("emp")
	require.NotNil(t, rec.pages)
	require.Nil(t, rec.pages.next, "still exactly one data page mapped")
	require.Equal(t, 2, rec.free.Len(), "hole and tail remainder should both be free")

	var foundHundred bool
	rec.free.Each(func(h *blockHeader) bool {
		if h.size == 100 {
			foundHundred = true
		}
		return true
	})
	require.True(t, foundHundred, "freed block should not yet be coalesced with any neighbour")
}

// TestS4CoalesceForwardAndBackward mirrors spec.md §8 scenario S4.
func TestS4CoalesceForwardAndBackward(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	ptrs := make([][]byte, 5)
	for i := range ptrs {
		ptrs[i] = m.Xcalloc("emp", 1)
	}

	m.Xfree(ptrs[2])
	m.Xfree(ptrs[1])
	m.Xfree(ptrs[3])

	rec := m.registry.Lookup("emp")
	require.Equal(t, 2, rec.free.Len(), "middle merge and tail remainder")

	wantMiddle := 3*100 + 2*blockHeaderSize
	var foundMiddle bool
	rec.free.Each(func(h *blockHeader) bool {
		if h.size == wantMiddle {
			foundMiddle = true
		}
		return true
	})
	require.True(t, foundMiddle, "expected a coalesced middle block of size %d", wantMiddle)
}

// TestS5MultiPageRecordReclaimsPages mirrors spec.md §8 scenario S5: an
// element size chosen so two units consume an entire page (leaving at
// most a hard-fragmentation sliver, never a usable free block), forcing
// the next allocation onto a fresh second page.
func TestS5MultiPageRecordReclaimsPages(t *testing.T) {
	m := New(Options{})
	elemSize := payloadCapacity(m.PageSize()) / 2
	require.Equal(t, RegisterOK, m.Register("big", elemSize))

	a := m.Xcalloc("big", 2)
	require.NotNil(t, a)

	rec := m.registry.Lookup("big")
	require.Equal(t, 1, countPages(rec))
	require.Equal(t, 0, rec.free.Len(), "first page's capacity should be fully consumed")

	b := m.Xcalloc("big", 1)
	require.NotNil(t, b)
	require.Equal(t, 2, countPages(rec), "second unit needs a fresh page")

	m.Xfree(a)
	require.Equal(t, 1, countPages(rec))

	m.Xfree(b)
	require.Equal(t, 0, countPages(rec))
}

// TestS6UnknownRecordReturnsNil mirrors spec.md §8 scenario S6.
func TestS6UnknownRecordReturnsNil(t *testing.T) {
	m := New(Options{})
	require.Nil(t, m.Xcalloc("unknown", 1))
}

func TestXcallocRequestLargerThanCapacityReturnsNil(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 100))

	capacity := payloadCapacity(m.PageSize())
	units := uint32(capacity/100) + 2
	require.Nil(t, m.Xcalloc("emp", units))
}

func TestRoundTripAllocFreeRepeatedlyStaysSinglePage(t *testing.T) {
	m := New(Options{})
	require.Equal(t, RegisterOK, m.Register("emp", 64))
	rec := m.registry.Lookup("emp")

	for i := 0; i < 20; i++ {
		p := m.Xcalloc("emp", 1)
		require.NotNil(t, p)
		require.LessOrEqual(t, countPages(rec), 1)
		m.Xfree(p)
		require.Equal(t, 0, countPages(rec))
	}
}

func countPages(rec *recordDescriptor) int {
	n := 0
	for p := rec.pages; p != nil; p = p.next {
		n++
	}
	return n
}
