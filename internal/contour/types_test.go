package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Bounds(t *testing.T) {
	set := Set{
		{{3, 4}, {5, 4}, {5, 9}},
		{{1, 7}, {2, 2}},
	}

	box, ok := set.Bounds()

	assert.True(t, ok)
	assert.Equal(t, BoundingBox{MinX: 1, MinY: 2, MaxX: 5, MaxY: 9}, box)
	assert.Equal(t, 4, box.Width())
	assert.Equal(t, 7, box.Height())
	cx, cy := box.Center()
	assert.Equal(t, 3.0, cx)
	assert.Equal(t, 5.5, cy)
}

func TestSet_BoundsEmpty(t *testing.T) {
	_, ok := Set{}.Bounds()
	assert.False(t, ok)

	_, ok = Set{{}, {}}.Bounds()
	assert.False(t, ok)
}

func TestSet_PointCount(t *testing.T) {
	assert.Equal(t, 0, Set(nil).PointCount())
	assert.Equal(t, 5, Set{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}, {4, 4}}}.PointCount())
}
