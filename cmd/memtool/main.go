// memtool is an interactive driver for the vma allocator, modeled on
// the teacher's turdb CLI: a thin REPL over a single long-lived engine
// value, useful for manual exploration and scripted smoke tests.
//
// Usage:
//
//	memtool
//
// Enter "help" for the available commands.
package main

import "os"

func main() {
	repl := NewREPL(os.Stdin, os.Stdout, os.Stderr)
	repl.Run()
}
