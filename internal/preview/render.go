// Package preview draws contour sets as polylines for a quick visual check of
// what a toolpath will cut.
//
// The preview is normalised independently of the G-code: the set's bounding
// box is padded by Padding units on every side and scaled uniformly so it
// fits the canvas less a Margin-pixel border.
package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/gcode-tools-mcp/internal/contour"
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
)

const (
	// Padding is added around the contour bounding box, in grid units.
	Padding = 20

	// Margin is the canvas border in pixels.
	Margin = 20

	// MaxSize caps each side of the canvas in pixels.
	MaxSize = 4096

	// EmptyMessage is drawn when there is nothing to preview.
	EmptyMessage = "No paths detected. Try adjusting threshold."
)

// Options configures a preview render.
type Options struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background string  `json:"background"`
	Stroke     string  `json:"stroke"`
	Text       string  `json:"text"`
	LineWidth  float64 `json:"line_width"`
}

// DefaultOptions returns an 800x600 dark canvas with indigo strokes.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Background: "#0f172a",
		Stroke:     "#6366f1",
		Text:       "#666666",
		LineWidth:  1,
	}
}

// Transform maps grid points to canvas pixels.
type Transform struct {
	MinX, MinY int
	Scale      float64
}

// Apply returns the canvas position of p.
func (t Transform) Apply(p contour.Point) (float64, float64) {
	x := (float64(p.X-t.MinX)+Padding)*t.Scale + Margin
	y := (float64(p.Y-t.MinY)+Padding)*t.Scale + Margin
	return x, y
}

// Fit computes the transform that fits set onto a width x height canvas.
// ok is false for a set without points.
func Fit(set contour.Set, width, height int) (Transform, bool) {
	box, ok := set.Bounds()
	if !ok {
		return Transform{}, false
	}
	w := float64(box.Width() + Padding*2)
	h := float64(box.Height() + Padding*2)
	sx := float64(width-2*Margin) / w
	sy := float64(height-2*Margin) / h
	return Transform{MinX: box.MinX, MinY: box.MinY, Scale: math.Min(sx, sy)}, true
}

// Render draws set onto a new canvas.
func Render(set contour.Set, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", opts.Width, opts.Height)
	}
	if opts.Width > MaxSize || opts.Height > MaxSize {
		return nil, fmt.Errorf("preview size %dx%d over %d per side: %w", opts.Width, opts.Height, MaxSize, imaging.ErrResourceLimit)
	}
	bg, err := colorful.Hex(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", opts.Background, err)
	}
	fg, err := colorful.Hex(opts.Stroke)
	if err != nil {
		return nil, fmt.Errorf("invalid stroke color %q: %w", opts.Stroke, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	t, ok := Fit(set, opts.Width, opts.Height)
	if !ok {
		txt, err := colorful.Hex(opts.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid text color %q: %w", opts.Text, err)
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(txt),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(10, 20),
		}
		d.DrawString(EmptyMessage)
		return img, nil
	}

	lw := opts.LineWidth
	if lw <= 0 {
		lw = 1
	}
	scanner := rasterx.NewScannerGV(opts.Width, opts.Height, img, img.Bounds())
	stroker := rasterx.NewStroker(opts.Width, opts.Height, scanner)
	stroker.SetStroke(fixed.Int26_6(lw*64), 4*64, rasterx.ButtCap, nil, rasterx.FlatGap, rasterx.Miter)
	stroker.SetColor(fg)

	for _, c := range set {
		if len(c) == 0 {
			continue
		}
		stroker.Clear()
		stroker.Start(toFixed(t.Apply(c[0])))
		for _, p := range c[1:] {
			stroker.Line(toFixed(t.Apply(p)))
		}
		stroker.Stop(false)
		stroker.Draw()
	}

	return img, nil
}

// EncodePNG renders set and returns it as base64-encoded PNG.
func EncodePNG(set contour.Set, opts Options) (string, error) {
	img, err := Render(set, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}
