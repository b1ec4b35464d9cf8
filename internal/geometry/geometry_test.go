package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentered(t *testing.T) {
	r := Centered(Viewport{Width: 800, Height: 600}, 50, 50)
	require.Equal(t, Rect{Left: 375, Bottom: 275, Right: 425, Top: 325}, r)
	assert.Equal(t, Point{X: 375, Y: 275}, r.P1())
	assert.Equal(t, Point{X: 375, Y: 325}, r.P2())
	assert.Equal(t, Point{X: 425, Y: 325}, r.P3())
	assert.Equal(t, Point{X: 425, Y: 275}, r.P4())
}

func TestFull(t *testing.T) {
	r := Full(Viewport{Width: 800, Height: 600})
	assert.Equal(t, [4]Point{{0, 0}, {0, 600}, {800, 600}, {800, 0}}, r.Corners())
}

func TestSegmentIsNear(t *testing.T) {
	r := Rect{Left: 100, Bottom: 100, Right: 200, Top: 180}

	for _, tc := range []struct {
		name string
		seg  Segment
		p    Point
		want bool
	}{
		{"left on edge", r.LeftEdge(), Point{100, 140}, true},
		{"left inside band", r.LeftEdge(), Point{106, 140}, true},
		{"left outside band", r.LeftEdge(), Point{107, 140}, false},
		{"left endpoint inclusive", r.LeftEdge(), Point{97, 180}, true},
		{"left beyond extent", r.LeftEdge(), Point{100, 181}, false},
		{"right reversed order", Segment{A: r.P3(), B: r.P4()}, Point{195, 120}, true},
		{"top inside band", r.TopEdge(), Point{150, 175}, true},
		{"top beyond extent", r.TopEdge(), Point{99, 180}, false},
		{"bottom inside band", r.BottomEdge(), Point{200, 94}, true},
		{"bottom outside band", r.BottomEdge(), Point{150, 93.5}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.seg.IsNear(tc.p, 6))
		})
	}
}

func TestSegmentVertical(t *testing.T) {
	r := Rect{Left: 1, Bottom: 2, Right: 3, Top: 4}
	assert.True(t, r.LeftEdge().Vertical())
	assert.True(t, r.RightEdge().Vertical())
	assert.False(t, r.TopEdge().Vertical())
	assert.False(t, r.BottomEdge().Vertical())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(30, 0, 10))
	// lower bound wins on an inverted range
	assert.Equal(t, 8.0, Clamp(1, 8, 4))
}

func TestImageRect(t *testing.T) {
	r := Rect{Left: 10, Bottom: 20, Right: 110, Top: 100}
	assert.Equal(t, image.Rect(10, 500, 110, 580), r.ImageRect(600))
	w, h := r.PixelSize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)
}

func TestWithin(t *testing.T) {
	v := Viewport{Width: 800, Height: 600}
	assert.True(t, Full(v).Within(v))
	assert.False(t, Full(v).Translate(1, 0).Within(v))
	assert.False(t, Full(v).Inset(1).Within(v))
	assert.True(t, Full(v).Inset(-1).Within(v))
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 0.0, Snap(0.1))
	assert.Equal(t, 0.5, Snap(0.3))
	assert.Equal(t, 100.5, Snap(100.7))
	assert.Equal(t, -2.5, Snap(-2.4))
	assert.Equal(t, Point{X: 10.5, Y: 3}, Point{X: 10.4, Y: 3.2}.Snap())
	assert.Equal(t, Viewport{Width: 640, Height: 480.5}, Viewport{Width: 640.3, Height: 480.9}.Snap())
	assert.Equal(t, Rect{Left: 0, Bottom: 0, Right: 100.5, Top: 80.5}, Rect{Left: 0.1, Bottom: 0.2, Right: 100.3, Top: 80.7}.Snap())
}
