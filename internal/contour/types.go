package contour

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contour is an ordered polyline of 8-connected grid points.
type Contour []Point

// Set is an ordered collection of contours in the raster order their seed
// cells were discovered. The order is the emission order of the toolpath.
type Set []Contour

// PointCount returns the total number of points across all contours.
func (s Set) PointCount() int {
	n := 0
	for _, c := range s {
		n += len(c)
	}
	return n
}

// BoundingBox is the inclusive extent of a point collection.
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() (float64, float64) {
	return float64(b.MinX+b.MaxX) / 2, float64(b.MinY+b.MaxY) / 2
}

// Width returns MaxX-MinX.
func (b BoundingBox) Width() int { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b BoundingBox) Height() int { return b.MaxY - b.MinY }

// Bounds computes one bounding box over every point of every contour in s.
// ok is false when s holds no points.
func (s Set) Bounds() (box BoundingBox, ok bool) {
	for _, c := range s {
		for _, p := range c {
			if !ok {
				box = BoundingBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
				ok = true
				continue
			}
			if p.X < box.MinX {
				box.MinX = p.X
			}
			if p.X > box.MaxX {
				box.MaxX = p.X
			}
			if p.Y < box.MinY {
				box.MinY = p.Y
			}
			if p.Y > box.MaxY {
				box.MaxY = p.Y
			}
		}
	}
	return box, ok
}
