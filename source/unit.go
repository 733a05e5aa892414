// Package source models the named in-memory documents a run operates
// on and the front end that parses all of a run's units together,
// deriving the symbol-resolution capability matchers consume.
package source

import (
	"os"
	"strings"
)

// Unit is one named logical source file's text. Units live in memory
// only; a name is an identifier for reporting, not a path that is
// read.
type Unit struct {
	Name string
	Text string
}

// NewUnit builds a unit from individual lines, newline-joined with a
// trailing newline.
func NewUnit(name string, lines ...string) Unit {
	return Unit{Name: name, Text: strings.Join(lines, "\n") + "\n"}
}

// ReadUnit loads a unit from disk, named by its path.
func ReadUnit(path string) (Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Name: path, Text: string(content)}, nil
}

// Lines splits the unit's text for line-oriented display. The split
// keeps no trailing empty line for text ending in a newline.
func (u Unit) Lines() []string {
	lines := strings.Split(u.Text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
