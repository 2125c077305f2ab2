package imaging

import (
	"errors"
	"fmt"
)

// DefaultMaxPixels bounds the size of an image that will be decoded or
// converted when no other limit is configured.
const DefaultMaxPixels = 4096 * 4096

// ErrResourceLimit is returned when an image exceeds the pixel limit.
var ErrResourceLimit = errors.New("image exceeds pixel limit")

// CheckPixelLimit returns an error wrapping ErrResourceLimit when a
// width x height image exceeds maxPixels. A maxPixels of zero or less
// disables the check.
//
// Dimensions are compared as floats so absurd sizes read from file headers
// cannot overflow the product.
func CheckPixelLimit(width, height float64, maxPixels int) error {
	if maxPixels <= 0 {
		return nil
	}
	if width*height > float64(maxPixels) {
		return fmt.Errorf("%gx%g (%g pixels, limit %d): %w", width, height, width*height, maxPixels, ErrResourceLimit)
	}
	return nil
}
