// Package shell provides the line-reading and history primitives behind
// memtool's interactive prompt. Adapted from the teacher's pkg/cli.Shell:
// same prompt/history shape, with the SQL multi-line statement parsing
// dropped since memtool's commands are always single-line.
package shell

import (
	"bufio"
	"io"
	"strings"
)

// Shell reads commands from an input stream, echoing a prompt and
// keeping a bounded command history for recall.
type Shell struct {
	reader *bufio.Reader
	output io.Writer

	prompt string

	history    []string
	maxHistory int
}

// New creates a Shell reading from input and writing its prompt to
// output. If input is nil the shell reports EOF immediately.
func New(input io.Reader, output io.Writer) *Shell {
	var reader *bufio.Reader
	if input != nil {
		reader = bufio.NewReader(input)
	}
	return &Shell{
		reader:     reader,
		output:     output,
		prompt:     "memtool> ",
		history:    make([]string, 0),
		maxHistory: 1000,
	}
}

// ReadLine writes the prompt, reads one line of input, and records it
// in history. Returns the line with trailing whitespace removed and
// whether EOF was reached.
func (s *Shell) ReadLine() (string, bool) {
	if s.output != nil {
		io.WriteString(s.output, s.prompt)
	}

	if s.reader == nil {
		return "", true
	}

	line, err := s.reader.ReadString('\n')
	eof := err != nil
	line = strings.TrimRight(line, " \t\r\n")

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		s.addHistory(trimmed)
	}
	return line, eof
}

func (s *Shell) addHistory(cmd string) {
	if len(s.history) > 0 && s.history[len(s.history)-1] == cmd {
		return
	}
	s.history = append(s.history, cmd)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// History returns a copy of the recorded command history.
func (s *Shell) History() []string {
	result := make([]string, len(s.history))
	copy(result, s.history)
	return result
}
