// Package toolpath compiles contour sets into G-code for a two-axis machine
// with a lifting tool.
package toolpath

import (
	"io"
	"strings"
)

// Program is a compiled G-code program. It is immutable once returned by
// Compile.
type Program struct {
	lines []string

	// Paths is the number of contour blocks in the program.
	Paths int

	// RapidMoves counts G0 XY moves, including the two origin moves.
	RapidMoves int

	// LinearMoves counts G1 moves.
	LinearMoves int
}

// Lines returns a copy of the program's lines without terminators.
func (p *Program) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// Empty reports whether the program carries no path blocks.
func (p *Program) Empty() bool {
	return p.Paths == 0
}

// String returns the program text, every line newline-terminated.
func (p *Program) String() string {
	var sb strings.Builder
	for _, l := range p.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the program text to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}
