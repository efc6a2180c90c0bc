// pkg/memmgr/vmgate.go
package memmgr

import "fmt"

// Gateway wraps the OS anonymous virtual-memory mapping primitive. Every
// data page the manager hands payloads out of is requested through a
// Gateway; registry pages and block headers are ordinary Go-heap values.
// Two syscalls per page event: one to map, one to unmap.
type Gateway struct {
	pageSize int
}

// NewGateway reads the system page size once and returns a ready Gateway.
func NewGateway() *Gateway {
	return &Gateway{pageSize: queryPageSize()}
}

// PageSize returns the system page size in bytes, read once at
// construction.
func (g *Gateway) PageSize() int {
	return g.pageSize
}

// RequestPages maps n contiguous, zero-filled, read/write pages of
// anonymous private memory and returns the base slice.
func (g *Gateway) RequestPages(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("vma: request_pages: n must be positive, got %d", n)
	}
	region, err := mapPages(n * g.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	return region, nil
}

// ReleasePages unmaps a region previously returned by RequestPages. The
// caller guarantees region is exactly what RequestPages gave back.
func (g *Gateway) ReleasePages(region []byte) error {
	return unmapPages(region)
}
