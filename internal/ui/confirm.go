package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks for interactive yes/no confirmation before destructive CLI
// operations (profile deletion, remote deletes).
type Confirmer struct {
	in  io.Reader
	out io.Writer
}

// NewConfirmer creates a confirmer on stdin/stderr.
func NewConfirmer() *Confirmer {
	return &Confirmer{in: os.Stdin, out: os.Stderr}
}

// NewConfirmerWith creates a confirmer on explicit streams. Used by tests.
func NewConfirmerWith(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out}
}

// Confirm prints the prompt and reads one line. Only an explicit "y" or
// "yes" counts as approval; everything else, including read errors, denies.
func (c *Confirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
