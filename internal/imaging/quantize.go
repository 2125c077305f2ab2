package imaging

import (
	"image"
)

// Cell values of a BinaryGrid.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// BinaryGrid is a row-major two-valued grid derived from a PixelGrid.
// Every cell is either Foreground or Background.
type BinaryGrid struct {
	Width  int
	Height int
	Cells  []uint8
}

// Index returns the row-major index of (x, y).
func (g *BinaryGrid) Index(x, y int) int {
	return y*g.Width + x
}

// At returns the cell value at (x, y).
func (g *BinaryGrid) At(x, y int) uint8 {
	return g.Cells[y*g.Width+x]
}

// IsInterior reports whether (x, y) lies strictly inside the grid, off the
// outer ring of cells.
func (g *BinaryGrid) IsInterior(x, y int) bool {
	return x >= 1 && x <= g.Width-2 && y >= 1 && y <= g.Height-2
}

// ForegroundCount returns the number of foreground cells.
func (g *BinaryGrid) ForegroundCount() int {
	n := 0
	for _, c := range g.Cells {
		if c == Foreground {
			n++
		}
	}
	return n
}

// Image returns the grid as a grayscale image (foreground white).
func (g *BinaryGrid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Cells)
	return img
}

// Luminance computes ITU-R BT.601 luma from 8-bit channels:
//
//	0.299*R + 0.587*G + 0.114*B
func Luminance(r, g, b uint8) float64 {
	return float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114
}

// Quantize converts a PixelGrid to a BinaryGrid of the same size. A cell is
// Foreground when its luminance is strictly greater than threshold. Alpha is
// ignored. Thresholds outside 0-255 are accepted and yield a uniform grid.
func Quantize(p *PixelGrid, threshold int) *BinaryGrid {
	n := p.Width * p.Height
	cells := make([]uint8, n)
	t := float64(threshold)
	for i := 0; i < n; i++ {
		o := i * 4
		if Luminance(p.Pix[o], p.Pix[o+1], p.Pix[o+2]) > t {
			cells[i] = Foreground
		}
	}
	return &BinaryGrid{Width: p.Width, Height: p.Height, Cells: cells}
}

// NewBinaryGrid builds a grid from rows of 0/1 values, mostly useful for tests
// and fixtures. Any non-zero entry becomes Foreground.
func NewBinaryGrid(rows [][]int) *BinaryGrid {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	cells := make([]uint8, w*h)
	for y, row := range rows {
		for x := 0; x < w && x < len(row); x++ {
			if row[x] != 0 {
				cells[y*w+x] = Foreground
			}
		}
	}
	return &BinaryGrid{Width: w, Height: h, Cells: cells}
}
