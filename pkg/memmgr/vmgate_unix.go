//go:build unix || darwin || linux || freebsd || openbsd || netbsd

// pkg/memmgr/vmgate_unix.go
package memmgr

import "golang.org/x/sys/unix"

// queryPageSize reads the OS page size via getpagesize(2).
func queryPageSize() int {
	return unix.Getpagesize()
}

// mapPages requests size bytes of anonymous, zero-filled, read/write
// private memory from the kernel. The kernel zero-fills anonymous
// mappings on first touch, so no explicit zeroing is needed here.
func mapPages(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// unmapPages releases a region obtained from mapPages.
func unmapPages(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return unix.Munmap(region)
}
