// pkg/memmgr/errors.go
package memmgr

import "errors"

// Sentinel errors, declared together the way pkg/pager.pager.go groups
// ErrInvalidHeader/ErrPageNotFound/etc. register and Xcalloc keep their
// spec-mandated int-sentinel / nil-pointer returns (spec.md §7); these
// back the OS-call boundary and the one debug assertion instead.
var (
	ErrOutOfMemory = errors.New("vma: out of memory")
	ErrDoubleFree  = errors.New("vma: double free")
)
