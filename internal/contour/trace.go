package contour

import (
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
)

const (
	// MaxSteps caps the number of cells a single walk may append.
	MaxSteps = 10000

	// MinLength is the noise floor: contours with this many points or fewer
	// are discarded.
	MinLength = 5
)

// direction is a unit step on the 8-neighbourhood.
type direction struct {
	dx, dy int
}

// directions is the cyclic search order, index 0 first.
var directions = [8]direction{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}

// Stats describes one tracing run.
type Stats struct {
	// Seeds is the number of walks started.
	Seeds int `json:"seeds"`

	// Kept is the number of contours longer than MinLength.
	Kept int `json:"kept"`

	// Discarded is the number of walks dropped as noise.
	Discarded int `json:"discarded"`

	// Truncated is the number of walks stopped by MaxSteps rather than a dead end.
	Truncated int `json:"truncated"`

	// EdgeCells is the number of boundary cells in the grid.
	EdgeCells int `json:"edge_cells"`
}

// visitedSet records cells consumed by a walk during one Trace call.
type visitedSet []bool

func (v visitedSet) has(i int) bool { return v[i] }
func (v visitedSet) add(i int)      { v[i] = true }

// Trace extracts contours from g. See the package documentation for the walk
// rules. An empty Set is a valid result meaning no paths were found.
func Trace(g *imaging.BinaryGrid) (Set, Stats) {
	var (
		set   Set
		stats Stats
	)
	if g == nil || g.Width < 3 || g.Height < 3 {
		return set, stats
	}

	edges := EdgeMap(g)
	for _, e := range edges {
		if e {
			stats.EdgeCells++
		}
	}

	visited := make(visitedSet, len(g.Cells))
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			idx := g.Index(x, y)
			if !edges[idx] || visited.has(idx) {
				continue
			}

			stats.Seeds++
			path, truncated := walk(g, edges, visited, x, y)
			if truncated {
				stats.Truncated++
			}
			if len(path) <= MinLength {
				stats.Discarded++
				continue
			}
			stats.Kept++
			set = append(set, path)
		}
	}

	return set, stats
}

// walk follows boundary cells from (startX, startY) until it reaches a dead
// end or MaxSteps. It reports whether the step cap ended the walk.
func walk(g *imaging.BinaryGrid, edges []bool, visited visitedSet, startX, startY int) (Contour, bool) {
	var path Contour
	x, y := startX, startY
	d := 0

	for steps := 0; steps < MaxSteps; steps++ {
		visited.add(g.Index(x, y))
		path = append(path, Point{X: x, Y: y})

		found := false
		for i := 0; i < len(directions); i++ {
			k := (d + i) % len(directions)
			nx, ny := x+directions[k].dx, y+directions[k].dy
			if !g.IsInterior(nx, ny) {
				continue
			}
			n := g.Index(nx, ny)
			if edges[n] && !visited.has(n) {
				x, y, d = nx, ny, k
				found = true
				break
			}
		}
		if !found {
			return path, false
		}
	}

	return path, true
}
