// Package pipeline ties quantising, tracing and compiling into the single
// stateless conversion from pixels to G-code.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/gcode-tools-mcp/internal/contour"
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
	"github.com/ironsheep/gcode-tools-mcp/internal/toolpath"
)

// DefaultMaxPixels bounds the grid size a single conversion will accept.
const DefaultMaxPixels = imaging.DefaultMaxPixels

var (
	// ErrResourceLimit is returned when an image exceeds the pixel limit. It
	// is the same value the image loader returns, so one errors.Is check
	// covers decoding and conversion.
	ErrResourceLimit = imaging.ErrResourceLimit

	// ErrInvalidPixels is returned for a nil buffer or one whose length does
	// not match its dimensions.
	ErrInvalidPixels = errors.New("invalid pixel buffer")
)

// Result is the output of one conversion.
type Result struct {
	Contours contour.Set
	Program  *toolpath.Program
	Stats    contour.Stats
	Width    int
	Height   int
}

// Generate converts pixels into a contour set and G-code program using the
// default pixel limit. Threshold, feed and scale are used as given.
func Generate(pixels *imaging.PixelGrid, threshold, feed int, scale float64) (*Result, error) {
	return generate(pixels, threshold, feed, scale, DefaultMaxPixels)
}

func generate(pixels *imaging.PixelGrid, threshold, feed int, scale float64, maxPixels int) (*Result, error) {
	if !pixels.Valid() {
		return nil, ErrInvalidPixels
	}
	if err := CheckLimit(pixels.Width, pixels.Height, maxPixels); err != nil {
		return nil, err
	}

	grid := imaging.Quantize(pixels, threshold)
	set, stats := contour.Trace(grid)

	return &Result{
		Contours: set,
		Program:  toolpath.Compile(set, feed, scale),
		Stats:    stats,
		Width:    pixels.Width,
		Height:   pixels.Height,
	}, nil
}

// CheckLimit returns an error wrapping ErrResourceLimit when a width x height
// grid exceeds maxPixels. A maxPixels of zero or less disables the check.
func CheckLimit(width, height, maxPixels int) error {
	return imaging.CheckPixelLimit(float64(width), float64(height), maxPixels)
}

// Options configures GenerateImage.
type Options struct {
	Threshold int
	Feed      int
	Scale     float64

	// MaxPixels overrides DefaultMaxPixels; zero keeps the default and a
	// negative value disables the limit.
	MaxPixels int

	Prepare imaging.PrepareOptions
}

// GenerateImage prepares img according to opts and converts it.
func GenerateImage(img image.Image, opts Options) (*Result, error) {
	pixels, limit, err := prepare(img, opts)
	if err != nil {
		return nil, err
	}
	return generate(pixels, opts.Threshold, opts.Feed, opts.Scale, limit)
}

// Binarize prepares img according to opts and quantises it without tracing.
func Binarize(img image.Image, opts Options) (*imaging.BinaryGrid, error) {
	pixels, limit, err := prepare(img, opts)
	if err != nil {
		return nil, err
	}
	if err := CheckLimit(pixels.Width, pixels.Height, limit); err != nil {
		return nil, err
	}
	return imaging.Quantize(pixels, opts.Threshold), nil
}

func prepare(img image.Image, opts Options) (*imaging.PixelGrid, int, error) {
	if img == nil {
		return nil, 0, ErrInvalidPixels
	}

	limit := opts.MaxPixels
	if limit == 0 {
		limit = DefaultMaxPixels
	}
	// Reject oversized sources before Prepare allocates copies of them,
	// unless Prepare is going to shrink them first.
	if opts.Prepare.MaxDimension == 0 && opts.Prepare.Crop == nil {
		b := img.Bounds()
		if err := CheckLimit(b.Dx(), b.Dy(), limit); err != nil {
			return nil, 0, err
		}
	}

	prepared, err := imaging.Prepare(img, opts.Prepare)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to prepare image: %w", err)
	}
	return imaging.NewPixelGrid(prepared), limit, nil
}
