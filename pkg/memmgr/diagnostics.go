// pkg/memmgr/diagnostics.go
package memmgr

import (
	"fmt"
	"io"
	"os"
)

// PrintRegisteredRecords writes one line per registered record: its
// name and element size. Observational; never mutates state (spec.md
// §6).
func (m *Manager) PrintRegisteredRecords(w io.Writer) {
	fmt.Fprintf(w, "%-32s %12s\n", "NAME", "ELEM_SIZE")
	m.registry.Each(func(d *recordDescriptor) bool {
		fmt.Fprintf(w, "%-32s %12d\n", d.Name(), d.elemSize)
		return true
	})
}

// PrintMemoryUsage writes page and block accounting for the named
// record, or for every registered record if name is nil.
func (m *Manager) PrintMemoryUsage(name *string) {
	m.FprintMemoryUsage(os.Stdout, name)
}

// FprintMemoryUsage is PrintMemoryUsage with an explicit writer, so the
// diagnostic is testable against a bytes.Buffer instead of stdout.
func (m *Manager) FprintMemoryUsage(w io.Writer, name *string) {
	report := func(d *recordDescriptor) {
		mapped := m.usage.mappedPages(d.Name())
		freeBytes, blockCount := freeChainStats(d)
		fmt.Fprintf(w, "%-32s pages=%-6d free_chain_len=%-6d free_bytes=%-10d\n",
			d.Name(), mapped, blockCount, freeBytes)
	}

	if name != nil {
		d := m.registry.Lookup(*name)
		if d != nil {
			report(d)
		}
		return
	}
	m.registry.Each(func(d *recordDescriptor) bool {
		report(d)
		return true
	})
}

// PrintBlockUsage writes the full intra-page block chain (offset, size,
// free/allocated) for every data page of every registered record.
func (m *Manager) PrintBlockUsage(w io.Writer) {
	m.registry.Each(func(d *recordDescriptor) bool {
		fmt.Fprintf(w, "record %s:\n", d.Name())
		for page := d.pages; page != nil; page = page.next {
			fmt.Fprintf(w, "  page:\n")
			for h := page.first; h != nil; h = h.next {
				state := "allocated"
				if h.isFree {
					state = "free"
				}
				fmt.Fprintf(w, "    offset=%-8d size=%-8d %s\n", h.offset, h.size, state)
			}
		}
		return true
	})
}

func freeChainStats(d *recordDescriptor) (freeBytes, count int) {
	d.free.Each(func(h *blockHeader) bool {
		freeBytes += h.size
		count++
		return true
	})
	return freeBytes, count
}
