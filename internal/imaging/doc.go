// Package imaging loads source images and turns them into the binary grids
// that contour tracing works on.
//
// The flow through this package is:
//
//  1. ImageCache.Load decodes a file (raster formats via disintegration/imaging
//     with EXIF orientation applied, SVG via oksvg).
//  2. Prepare optionally crops, downsamples, inverts and blurs the image.
//  3. NewPixelGrid copies the result into a canvas-style RGBA buffer.
//  4. Quantize thresholds the buffer into a BinaryGrid.
//
// # Coordinate System
//
// All grid coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Grids are row-major.
//
// # Luminance
//
// Quantize uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B) on 8-bit
// channels and ignores alpha. A cell is foreground when its luminance is
// strictly greater than the threshold.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Everything else here is a pure
// function of its arguments.
package imaging
