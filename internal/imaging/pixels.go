package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// PixelGrid is a row-major RGBA buffer with four non-premultiplied 8-bit
// channels per pixel, laid out like a browser canvas ImageData.
//
// Pix[(y*Width+x)*4 : (y*Width+x)*4+4] holds R, G, B, A for pixel (x, y).
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelGrid copies img into a PixelGrid. The origin of img's bounds
// becomes (0, 0) in the grid.
func NewPixelGrid(img image.Image) *PixelGrid {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		copy(pix[y*w*4:], src)
	}
	return &PixelGrid{Width: w, Height: h, Pix: pix}
}

// Valid reports whether the buffer length matches the declared dimensions.
func (p *PixelGrid) Valid() bool {
	return p != nil && p.Width >= 0 && p.Height >= 0 && len(p.Pix) == p.Width*p.Height*4
}

// Image returns the grid as an *image.NRGBA sharing the same buffer.
func (p *PixelGrid) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}
