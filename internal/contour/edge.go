package contour

import (
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
)

// IsEdge reports whether (x, y) is a boundary cell: an interior cell with at
// least one of its up, down, left or right neighbours holding a different
// value. Cells on the outer ring, or outside the grid, are never boundary
// cells.
func IsEdge(g *imaging.BinaryGrid, x, y int) bool {
	if !g.IsInterior(x, y) {
		return false
	}
	w := g.Width
	i := y*w + x
	c := g.Cells[i]
	return g.Cells[i-w] != c ||
		g.Cells[i+w] != c ||
		g.Cells[i-1] != c ||
		g.Cells[i+1] != c
}

// EdgeMap classifies every cell of g once. The result is indexed like
// g.Cells.
func EdgeMap(g *imaging.BinaryGrid) []bool {
	edges := make([]bool, len(g.Cells))
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			edges[y*g.Width+x] = IsEdge(g, x, y)
		}
	}
	return edges
}
