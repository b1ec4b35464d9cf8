package geometry

import (
	"image"
	"math"
)

// Point is a position in viewport space. The origin is the bottom-left
// corner of the viewport and Y grows upwards.
type Point struct {
	X float64
	Y float64
}

// Snap returns p moved onto the half-pixel grid.
func (p Point) Snap() Point {
	return Point{X: Snap(p.X), Y: Snap(p.Y)}
}

// Viewport is the drawable area the rectangle must stay inside.
type Viewport struct {
	Width  float64
	Height float64
}

// FromScreen converts a top-left-origin pointer position into viewport
// space by flipping Y.
func (v Viewport) FromScreen(x, y float64) Point {
	return Point{X: x, Y: v.Height - y}
}

// Snap rounds the extent down onto the half-pixel grid.
func (v Viewport) Snap() Viewport {
	return Viewport{Width: math.Floor(v.Width*2) / 2, Height: math.Floor(v.Height*2) / 2}
}

// Rect is an axis-aligned rectangle. Storing edges instead of corners keeps
// P1.x==P2.x, P3.x==P4.x, P1.y==P4.y and P2.y==P3.y true by construction.
type Rect struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Centered returns a width x height rectangle centred in v. The centre is
// truncated to whole pixels.
func Centered(v Viewport, width, height float64) Rect {
	cx := math.Trunc(v.Width / 2)
	cy := math.Trunc(v.Height / 2)
	left := cx - math.Trunc(width/2)
	bottom := cy - math.Trunc(height/2)
	return Rect{Left: left, Bottom: bottom, Right: left + width, Top: bottom + height}
}

// Full returns the rectangle covering the whole viewport.
func Full(v Viewport) Rect {
	return Rect{Left: 0, Bottom: 0, Right: v.Width, Top: v.Height}
}

// P1 is the bottom-left corner.
func (r Rect) P1() Point { return Point{X: r.Left, Y: r.Bottom} }

// P2 is the top-left corner.
func (r Rect) P2() Point { return Point{X: r.Left, Y: r.Top} }

// P3 is the top-right corner.
func (r Rect) P3() Point { return Point{X: r.Right, Y: r.Top} }

// P4 is the bottom-right corner.
func (r Rect) P4() Point { return Point{X: r.Right, Y: r.Bottom} }

// Corners returns P1..P4 in order.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.P1(), r.P2(), r.P3(), r.P4()}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Snap returns r with every edge on the half-pixel grid.
func (r Rect) Snap() Rect {
	return Rect{Left: Snap(r.Left), Bottom: Snap(r.Bottom), Right: Snap(r.Right), Top: Snap(r.Top)}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx, Top: r.Top + dy}
}

// Inset grows r by amount on every side. A negative amount shrinks it.
func (r Rect) Inset(amount float64) Rect {
	return Rect{Left: r.Left - amount, Bottom: r.Bottom - amount, Right: r.Right + amount, Top: r.Top + amount}
}

// Within reports whether every corner of r lies inside v.
func (r Rect) Within(v Viewport) bool {
	return r.Left >= 0 && r.Bottom >= 0 && r.Right <= v.Width && r.Top <= v.Height
}

// LeftEdge is the segment P1-P2.
func (r Rect) LeftEdge() Segment { return Segment{A: r.P1(), B: r.P2()} }

// TopEdge is the segment P2-P3.
func (r Rect) TopEdge() Segment { return Segment{A: r.P2(), B: r.P3()} }

// RightEdge is the segment P4-P3.
func (r Rect) RightEdge() Segment { return Segment{A: r.P4(), B: r.P3()} }

// BottomEdge is the segment P1-P4.
func (r Rect) BottomEdge() Segment { return Segment{A: r.P1(), B: r.P4()} }

// PixelSize returns the integer frame size of r.
func (r Rect) PixelSize() (width, height int) {
	return int(r.Width()), int(r.Height())
}

// ImageRect converts r into top-left-origin pixel coordinates of a target
// whose height is viewportHeight, keeping the integer size of r.
func (r Rect) ImageRect(viewportHeight float64) image.Rectangle {
	w, h := r.PixelSize()
	x := int(r.Left)
	y := int(viewportHeight - r.Top)
	return image.Rect(x, y, x+w, y+h)
}

// Segment is one edge of a Rect. Only vertical and horizontal segments are
// modelled.
type Segment struct {
	A Point
	B Point
}

// Vertical reports whether the segment runs along the Y axis.
func (s Segment) Vertical() bool {
	return s.A.X == s.B.X
}

// IsNear reports whether p is inside the touch band around s: the
// perpendicular distance is at most tolerance and the projection onto the
// segment falls within its extent, endpoints included.
func (s Segment) IsNear(p Point, tolerance float64) bool {
	if s.Vertical() {
		if math.Abs(p.X-s.A.X) > tolerance {
			return false
		}
		lo, hi := ordered(s.A.Y, s.B.Y)
		return p.Y >= lo && p.Y <= hi
	}
	if math.Abs(p.Y-s.A.Y) > tolerance {
		return false
	}
	lo, hi := ordered(s.A.X, s.B.X)
	return p.X >= lo && p.X <= hi
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Snap rounds v to the nearest multiple of 0.5. Sums and differences of
// such values are exact in float64, so edits on the grid never change a
// rectangle's size by rounding.
func Snap(v float64) float64 {
	return math.Round(v*2) / 2
}

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
