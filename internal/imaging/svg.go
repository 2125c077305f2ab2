package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// loadSVG rasterises an SVG file at its viewBox size onto a white canvas.
func loadSVG(path string, maxPixels int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return decodeSVG(data, maxPixels)
}

func decodeSVG(data []byte, maxPixels int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode svg: %w", err)
	}

	fw, fh := math.Ceil(icon.ViewBox.W), math.Ceil(icon.ViewBox.H)
	if !(fw > 0 && fh > 0) || math.IsInf(fw, 0) || math.IsInf(fh, 0) {
		return nil, fmt.Errorf("failed to decode svg: invalid viewBox %gx%g", icon.ViewBox.W, icon.ViewBox.H)
	}
	if err := CheckPixelLimit(fw, fh, maxPixels); err != nil {
		return nil, err
	}
	w, h := int(fw), int(fh)
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
