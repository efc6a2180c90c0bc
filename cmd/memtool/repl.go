package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"vma/internal/shell"
	"vma/pkg/memmgr"
)

// REPL is memtool's interactive driver: a single in-process Manager
// exercised through a small fixed command set. Adapted from the
// teacher's pkg/cli.REPL — same Shell-plus-output-stream shape, with
// SQL execution replaced by direct Manager calls.
type REPL struct {
	mgr   *memmgr.Manager
	shell *shell.Shell

	output    io.Writer
	errOutput io.Writer

	// live maps a handle name to an outstanding allocation, so alloc/free
	// commands can refer to payloads by a short token instead of an
	// address the user has no way to type back in.
	live map[string][]byte

	exitRequested bool
}

// NewREPL wires a Manager to the given input/output streams.
func NewREPL(input io.Reader, output, errOutput io.Writer) *REPL {
	return &REPL{
		mgr:       memmgr.New(memmgr.Options{}),
		shell:     shell.New(input, output),
		output:    output,
		errOutput: errOutput,
		live:      make(map[string][]byte),
	}
}

// Run starts the command loop, reading until EOF or "exit".
func (r *REPL) Run() {
	fmt.Fprintln(r.output, "memtool - vma command driver")
	fmt.Fprintln(r.output, "Enter \"help\" for usage hints.")

	for !r.exitRequested {
		line, eof := r.shell.ReadLine()
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			r.dispatch(trimmed)
		}
		if eof {
			fmt.Fprintln(r.output)
			break
		}
	}
}

func (r *REPL) dispatch(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch strings.ToLower(cmd) {
	case "exit", "quit":
		r.exitRequested = true
	case "help":
		r.printHelp()
	case "register":
		r.cmdRegister(args)
	case "alloc":
		r.cmdAlloc(args)
	case "free":
		r.cmdFree(args)
	case "records":
		r.mgr.PrintRegisteredRecords(r.output)
	case "usage":
		r.cmdUsage(args)
	case "blocks":
		r.mgr.PrintBlockUsage(r.output)
	case "integrity":
		r.cmdIntegrity(args)
	default:
		fmt.Fprintf(r.errOutput, "unknown command: %s\n", cmd)
		fmt.Fprintln(r.errOutput, "use \"help\" for usage hints.")
	}
}

func (r *REPL) printHelp() {
	help := `
register NAME SIZE        declare a record of SIZE bytes
alloc HANDLE NAME UNITS   allocate UNITS elements, bind the result to HANDLE
free HANDLE                release a previously allocated handle
records                    list every registered record
usage [NAME]                print page/free-chain accounting
blocks                      print every record's intra-page block chain
integrity NAME              check a record's structural invariants
help                        show this help message
exit                        leave memtool
`
	fmt.Fprintln(r.output, help)
}

func (r *REPL) cmdRegister(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.errOutput, "usage: register NAME SIZE")
		return
	}
	size, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(r.errOutput, "invalid size %q: %v\n", args[1], err)
		return
	}

	switch r.mgr.Register(args[0], size) {
	case memmgr.RegisterOK:
		fmt.Fprintf(r.output, "registered %s (%d bytes)\n", args[0], size)
	case memmgr.ErrElementTooLarge:
		fmt.Fprintln(r.errOutput, "error: element too large for one page")
	case memmgr.ErrDuplicateRecord:
		fmt.Fprintln(r.errOutput, "error: record already registered")
	}
}

func (r *REPL) cmdAlloc(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(r.errOutput, "usage: alloc HANDLE NAME UNITS")
		return
	}
	handle, name := args[0], args[1]
	units, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		fmt.Fprintf(r.errOutput, "invalid units %q: %v\n", args[2], err)
		return
	}
	if _, exists := r.live[handle]; exists {
		fmt.Fprintf(r.errOutput, "error: handle %q already in use\n", handle)
		return
	}

	p := r.mgr.Xcalloc(name, uint32(units))
	if p == nil {
		fmt.Fprintln(r.errOutput, "error: allocation failed")
		return
	}
	r.live[handle] = p
	fmt.Fprintf(r.output, "%s: %d bytes\n", handle, len(p))
}

func (r *REPL) cmdFree(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.errOutput, "usage: free HANDLE")
		return
	}
	p, ok := r.live[args[0]]
	if !ok {
		fmt.Fprintf(r.errOutput, "error: no such handle %q\n", args[0])
		return
	}
	delete(r.live, args[0])
	r.mgr.Xfree(p)
	fmt.Fprintf(r.output, "freed %s\n", args[0])
}

func (r *REPL) cmdUsage(args []string) {
	if len(args) == 0 {
		r.mgr.FprintMemoryUsage(r.output, nil)
		return
	}
	r.mgr.FprintMemoryUsage(r.output, &args[0])
}

func (r *REPL) cmdIntegrity(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.errOutput, "usage: integrity NAME")
		return
	}
	if err := r.mgr.CheckIntegrity(args[0]); err != nil {
		fmt.Fprintf(r.errOutput, "integrity violation: %v\n", err)
		return
	}
	fmt.Fprintln(r.output, "ok")
}
