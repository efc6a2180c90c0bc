//go:build windows

// pkg/memmgr/vmgate_windows.go
package memmgr

import (
	"reflect"
	"unsafe"

	"golang.org/x/sys/windows"
)

// queryPageSize reads the OS page size via GetSystemInfo.
func queryPageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.PageSize)
}

// mapPages reserves and commits size bytes of anonymous, zero-filled,
// read/write memory via VirtualAlloc. VirtualAlloc always zero-fills
// newly committed pages, so no explicit zeroing is needed here.
func mapPages(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}

	var data []byte
	header := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	header.Data = addr
	header.Len = size
	header.Cap = size
	return data, nil
}

// unmapPages releases a region obtained from mapPages.
func unmapPages(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&region[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
