package toolpath

import (
	"math"
	"strconv"

	"github.com/ironsheep/gcode-tools-mcp/internal/contour"
)

// UnitDivisor converts grid cells times scale into output millimetres.
const UnitDivisor = 10

// Fixed directives.
const (
	Banner       = "; G-Code Generated from Image"
	Millimeters  = "G21        ; Use millimeters"
	Absolute     = "G90        ; Absolute positioning"
	RaiseTool    = "G0 Z5      ; Raise tool"
	PlungeTool   = "G0 Z-2"
	MoveOrigin   = "G0 X0 Y0   ; Move to origin"
	ReturnOrigin = "G0 X0 Y0   ; Return to origin"
	StopSpindle  = "M5         ; Stop spindle"
	EndProgram   = "M30        ; End program"
)

// FeedRate returns the feed-rate directive for feed.
func FeedRate(feed int) string {
	return "F" + strconv.Itoa(feed) + " ; Set feed rate"
}

// Compile serialises set into a G-code program.
//
// Every point is centred on the bounding box of the whole set and mapped to
// ((x-cx)*scale/10, (y-cy)*scale/10). Contours are emitted in set order, each
// as a rapid move to its first point, a plunge, linear moves through the
// remaining points and a tool raise. An empty set yields the header and
// footer only. Feed and scale are not validated.
func Compile(set contour.Set, feed int, scale float64) *Program {
	p := &Program{}
	emit := func(l string) { p.lines = append(p.lines, l) }

	emit(Banner)
	emit(Millimeters)
	emit(Absolute)
	emit(FeedRate(feed))
	emit("")
	emit(RaiseTool)
	emit(MoveOrigin)
	p.RapidMoves++
	emit("")

	box, _ := set.Bounds()
	cx, cy := box.Center()

	for i, c := range set {
		emit("; Path " + strconv.Itoa(i+1))
		for j, pt := range c {
			x := (float64(pt.X) - cx) * scale / UnitDivisor
			y := (float64(pt.Y) - cy) * scale / UnitDivisor
			if j == 0 {
				emit("G0 X" + FormatCoord(x) + " Y" + FormatCoord(y))
				emit(PlungeTool)
				p.RapidMoves++
				continue
			}
			emit("G1 X" + FormatCoord(x) + " Y" + FormatCoord(y))
			p.LinearMoves++
		}
		emit(RaiseTool)
		emit("")
		p.Paths++
	}

	emit(ReturnOrigin)
	emit(StopSpindle)
	emit(EndProgram)
	p.RapidMoves++

	return p
}

// FormatCoord formats v with exactly two fractional digits. Values exactly
// half way between two hundredths round away from zero; every other value
// rounds to the nearest hundredth.
func FormatCoord(v float64) string {
	if v == 0 {
		return "0.00"
	}
	a := math.Abs(v)
	// a is an exact tie at the third decimal iff a*8 is an odd integer.
	if t := a * 8; t == math.Trunc(t) && math.Mod(t, 2) == 1 {
		r := (math.Floor(a*100) + 1) / 100
		if v < 0 {
			r = -r
		}
		return strconv.FormatFloat(r, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
