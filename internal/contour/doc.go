// Package contour extracts boundary paths from a binary grid.
//
// A boundary cell is an interior cell with at least one 4-connected neighbour
// of the opposite value. Cells on the outer ring of the grid are never
// boundary cells, so a shape that touches the image border has that side
// left untraced.
//
// # Tracing
//
// Trace scans interior cells in row-major order. Each boundary cell that no
// earlier contour has consumed seeds a greedy walk: from the current cell it
// looks at the eight neighbours in the cyclic order N, NE, E, SE, S, SW, W, NW
// starting at the direction it last moved in, and steps to the first one that
// is interior, a boundary cell and not yet visited. The walk stops at a dead
// end or after MaxSteps cells. It does not try to close the loop back to the
// seed, so the output is a set of open polylines rather than polygons.
//
// Contours of MinLength cells or fewer are dropped as noise, but their cells
// remain visited and can never seed another contour.
//
// The visited set only gates seeding and stepping onto a cell; it is never
// used to infer reachability.
package contour
