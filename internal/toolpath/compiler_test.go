package toolpath

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/gcode-tools-mcp/internal/contour"
)

func square() contour.Set {
	return contour.Set{{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
		{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3},
		{X: 1, Y: 3}, {X: 1, Y: 2},
	}}
}

func TestCompile_Empty(t *testing.T) {
	p := Compile(nil, 1000, 1)

	want := []string{
		"; G-Code Generated from Image",
		"G21        ; Use millimeters",
		"G90        ; Absolute positioning",
		"F1000 ; Set feed rate",
		"",
		"G0 Z5      ; Raise tool",
		"G0 X0 Y0   ; Move to origin",
		"",
		"G0 X0 Y0   ; Return to origin",
		"M5         ; Stop spindle",
		"M30        ; End program",
	}
	if diff := cmp.Diff(want, p.Lines()); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, p.Empty())
	assert.Zero(t, p.Paths)
	assert.Zero(t, p.LinearMoves)
	assert.Equal(t, 2, p.RapidMoves)
}

func TestCompile_Square(t *testing.T) {
	p := Compile(square(), 500, 1)

	want := []string{
		"; G-Code Generated from Image",
		"G21        ; Use millimeters",
		"G90        ; Absolute positioning",
		"F500 ; Set feed rate",
		"",
		"G0 Z5      ; Raise tool",
		"G0 X0 Y0   ; Move to origin",
		"",
		"; Path 1",
		"G0 X-0.10 Y-0.10",
		"G0 Z-2",
		"G1 X0.00 Y-0.10",
		"G1 X0.10 Y-0.10",
		"G1 X0.10 Y0.00",
		"G1 X0.10 Y0.10",
		"G1 X0.00 Y0.10",
		"G1 X-0.10 Y0.10",
		"G1 X-0.10 Y0.00",
		"G0 Z5      ; Raise tool",
		"",
		"G0 X0 Y0   ; Return to origin",
		"M5         ; Stop spindle",
		"M30        ; End program",
	}
	if diff := cmp.Diff(want, p.Lines()); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, p.Empty())
	assert.Equal(t, 1, p.Paths)
	assert.Equal(t, 7, p.LinearMoves)
	assert.Equal(t, 3, p.RapidMoves)
}

func TestCompile_Scale(t *testing.T) {
	// At scale 10 one grid cell is one millimetre.
	p := Compile(square(), 1000, 10)
	lines := p.Lines()

	assert.Contains(t, lines, "G0 X-1.00 Y-1.00")
	assert.Contains(t, lines, "G1 X1.00 Y1.00")

	// Every point sits on the ring, so the centre itself never appears.
	for _, l := range lines {
		assert.NotEqual(t, "G1 X0.00 Y0.00", l)
	}
}

func TestCompile_CentreOfWholeSet(t *testing.T) {
	// Two contours share one bounding box: x 0..10, y 0..4, centre (5, 2).
	set := contour.Set{
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 10, Y: 4}, {X: 5, Y: 2}},
	}

	lines := Compile(set, 1000, 1).Lines()

	assert.Contains(t, lines, "; Path 1")
	assert.Contains(t, lines, "; Path 2")
	assert.Contains(t, lines, "G0 X-0.50 Y-0.20")
	assert.Contains(t, lines, "G1 X-0.50 Y-0.10")
	assert.Contains(t, lines, "G0 X0.50 Y0.20")
	assert.Contains(t, lines, "G1 X0.00 Y0.00")
}

func TestCompile_CentreOfWholeSetScaled(t *testing.T) {
	set := contour.Set{
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 10, Y: 4}, {X: 5, Y: 2}},
	}

	lines := Compile(set, 1000, 10).Lines()

	assert.Contains(t, lines, "G0 X-5.00 Y-2.00")
	assert.Contains(t, lines, "G1 X-5.00 Y-1.00")
	assert.Contains(t, lines, "G0 X5.00 Y2.00")
	assert.Contains(t, lines, "G1 X0.00 Y0.00", "the bounding-box centre maps to the origin")
	for _, l := range lines {
		assert.NotContains(t, l, "-0.00")
	}
}

func TestCompile_BlockStructure(t *testing.T) {
	set := append(square(), contour.Contour{
		{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 12, Y: 10},
		{X: 12, Y: 11}, {X: 12, Y: 12}, {X: 11, Y: 12},
	})

	p := Compile(set, 1000, 1)
	lines := p.Lines()
	require.Equal(t, 2, p.Paths)

	// Each block opens with its label, a rapid to the first point and a plunge.
	for i, l := range lines {
		if !strings.HasPrefix(l, "; Path ") {
			continue
		}
		require.Greater(t, len(lines), i+2)
		assert.True(t, strings.HasPrefix(lines[i+1], "G0 X"), "line after %q: %q", l, lines[i+1])
		assert.Equal(t, PlungeTool, lines[i+2])
	}

	assert.Equal(t, 7+5, p.LinearMoves)
	assert.Equal(t, 1+2, strings.Count(p.String(), RaiseTool))
}

func TestProgram_StringAndWriteTo(t *testing.T) {
	p := Compile(square(), 1000, 1)

	s := p.String()
	assert.True(t, strings.HasSuffix(s, EndProgram+"\n"))
	assert.Equal(t, len(p.Lines()), strings.Count(s, "\n"))

	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(s)), n)
	assert.Equal(t, s, buf.String())
}

func TestProgram_LinesIsCopy(t *testing.T) {
	p := Compile(nil, 1000, 1)
	lines := p.Lines()
	lines[0] = "tampered"
	assert.Equal(t, Banner, p.Lines()[0])
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{-0.0, "0.00"},
		{0.1, "0.10"},
		{-0.1, "-0.10"},
		{1.5, "1.50"},
		{0.125, "0.13"},
		{-0.125, "-0.13"},
		{0.375, "0.38"},
		{2.625, "2.63"},
		{0.333333, "0.33"},
		{-12.3456, "-12.35"},
		{0.004, "0.00"},
		{-0.004, "-0.00"},
		{100, "100.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCoord(tt.in), "FormatCoord(%v)", tt.in)
	}
}

func TestFeedRate(t *testing.T) {
	assert.Equal(t, "F1000 ; Set feed rate", FeedRate(1000))
	assert.Equal(t, "F0 ; Set feed rate", FeedRate(0))
}
