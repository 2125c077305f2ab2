package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// PrepareOptions controls the adjustments applied to an image before it is
// quantised. The zero value leaves the image untouched.
type PrepareOptions struct {
	// Crop restricts conversion to a region of the source image.
	Crop *Region `json:"crop,omitempty"`

	// MaxDimension downsamples the image (Lanczos) so neither side exceeds
	// this many pixels. Zero disables resizing. Images are never enlarged.
	MaxDimension int `json:"max_dimension,omitempty"`

	// Invert swaps light and dark before thresholding, so dark artwork on a
	// light background becomes foreground.
	Invert bool `json:"invert,omitempty"`

	// BlurRadius applies a Gaussian blur of this radius to suppress speckle
	// that would otherwise become short noise contours. Zero disables it.
	BlurRadius float64 `json:"blur_radius,omitempty"`
}

// Prepare applies opts to img in the order crop, resize, invert, blur.
func Prepare(img image.Image, opts PrepareOptions) (image.Image, error) {
	out := img

	if opts.Crop != nil {
		c := *opts.Crop
		bounds := out.Bounds()
		if c.X1 < bounds.Min.X || c.Y1 < bounds.Min.Y || c.X2 > bounds.Max.X || c.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				c.X1, c.Y1, c.X2, c.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if c.X1 >= c.X2 || c.Y1 >= c.Y2 {
			return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
		}
		out = imaging.Crop(out, image.Rect(c.X1, c.Y1, c.X2, c.Y2))
	}

	if opts.MaxDimension < 0 {
		return nil, fmt.Errorf("invalid max dimension: %d", opts.MaxDimension)
	}
	if opts.MaxDimension > 0 {
		b := out.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			out = imaging.Fit(out, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}

	if opts.Invert {
		out = imaging.Invert(out)
	}

	if opts.BlurRadius < 0 {
		return nil, fmt.Errorf("invalid blur radius: %g", opts.BlurRadius)
	}
	if opts.BlurRadius > 0 {
		out = blur.Gaussian(out, opts.BlurRadius)
	}

	return out, nil
}
