// Package editor implements the interactive editing of the capture
// rectangle: dragging single edges, uniform scaling and moving, all clamped
// to the viewport.
package editor

import (
	"github.com/junsooki/cliprec/internal/geometry"
)

// State is the interaction mode of the editor.
type State int

const (
	StateNormal State = iota
	StateScale
	StateMove
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateScale:
		return "scale"
	case StateMove:
		return "move"
	default:
		return "unknown"
	}
}

// Edges tells which edges are being dragged.
type Edges struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Any reports whether at least one edge is selected.
func (e Edges) Any() bool {
	return e.Left || e.Right || e.Top || e.Bottom
}

func allEdges(selected bool) Edges {
	return Edges{Left: selected, Right: selected, Top: selected, Bottom: selected}
}

// Options holds the handle sizes and rectangle limits.
type Options struct {
	// TouchSize is the extra grab tolerance around an edge.
	TouchSize float64
	// BoundarySize is the drawn thickness of an edge.
	BoundarySize float64
	// MinDistance is the smallest width and height the rectangle may have.
	MinDistance float64
	// DefaultWidth and DefaultHeight size the rectangle created on
	// construction and by Reset.
	DefaultWidth  float64
	DefaultHeight float64
}

// DefaultOptions returns the stock handle sizes.
func DefaultOptions() Options {
	return Options{
		TouchSize:     8,
		BoundarySize:  4,
		MinDistance:   16,
		DefaultWidth:  50,
		DefaultHeight: 50,
	}
}

// Tolerance is the half-width of the touch band centred on each edge.
func (o Options) Tolerance() float64 {
	return (o.BoundarySize + o.TouchSize) / 2
}

// Editor owns the capture rectangle and the edge selection. It is not safe
// for concurrent use; all calls are expected from the input/render loop.
//
// Pointer positions, the viewport and the rectangle are kept on the
// half-pixel grid (see geometry.Snap), so MOVE preserves width and height
// exactly.
type Editor struct {
	opts     Options
	viewport geometry.Viewport

	rect     geometry.Rect
	snapshot geometry.Rect
	anchor   geometry.Point
	edges    Edges
	state    State
}

// New creates an editor with the default rectangle centred in viewport.
func New(viewport geometry.Viewport, opts Options) *Editor {
	viewport = viewport.Snap()
	opts.MinDistance = geometry.Snap(opts.MinDistance)
	return &Editor{
		opts:     opts,
		viewport: viewport,
		rect:     geometry.Centered(viewport, opts.DefaultWidth, opts.DefaultHeight).Snap(),
	}
}

func (e *Editor) Rect() geometry.Rect         { return e.rect }
func (e *Editor) Edges() Edges                { return e.edges }
func (e *Editor) State() State                { return e.state }
func (e *Editor) Viewport() geometry.Viewport { return e.viewport }
func (e *Editor) Options() Options            { return e.opts }

// SetRect replaces the rectangle as-is. It is meant for restoring a
// previously saved rectangle; callers are responsible for its validity.
// The edges are snapped to the half-pixel grid.
func (e *Editor) SetRect(r geometry.Rect) {
	e.rect = r.Snap()
}

// SetViewport updates the viewport. When it shrank, the right and top edges
// are pulled inside and the left and bottom edges give way so the rectangle
// keeps its minimum size.
func (e *Editor) SetViewport(v geometry.Viewport) {
	v = v.Snap()
	if v == e.viewport {
		return
	}
	e.viewport = v
	minDist := e.opts.MinDistance
	if e.rect.Right > v.Width {
		e.rect.Right = v.Width
		if e.rect.Right-e.rect.Left < minDist {
			e.rect.Left = max(0, e.rect.Right-minDist)
		}
	}
	if e.rect.Top > v.Height {
		e.rect.Top = v.Height
		if e.rect.Top-e.rect.Bottom < minDist {
			e.rect.Bottom = max(0, e.rect.Top-minDist)
		}
	}
}

// BeginScale enters SCALE with p as the anchor. It returns false when the
// editor is already in a non-normal mode.
func (e *Editor) BeginScale(p geometry.Point) bool {
	return e.begin(StateScale, p)
}

// BeginMove enters MOVE with p as the anchor. It returns false when the
// editor is already in a non-normal mode.
func (e *Editor) BeginMove(p geometry.Point) bool {
	return e.begin(StateMove, p)
}

func (e *Editor) begin(s State, p geometry.Point) bool {
	if e.state != StateNormal {
		return false
	}
	e.state = s
	e.edges = allEdges(true)
	e.snapshot = e.rect
	e.anchor = p.Snap()
	return true
}

// End leaves s if it is the current mode and returns to NORMAL.
func (e *Editor) End(s State) bool {
	if e.state != s || s == StateNormal {
		return false
	}
	e.Abort()
	return true
}

// Abort unconditionally returns to NORMAL and clears the selection.
func (e *Editor) Abort() {
	e.state = StateNormal
	e.edges = Edges{}
}

// PointerDown selects every edge whose touch band contains p and reports
// whether any edge got selected. It is a no-op in SCALE and MOVE, which
// keep editing from the snapshot and anchor taken on key-down.
func (e *Editor) PointerDown(p geometry.Point) bool {
	if e.state != StateNormal {
		return false
	}
	p = p.Snap()
	tol := e.opts.Tolerance()
	e.edges = Edges{
		Left:   e.rect.LeftEdge().IsNear(p, tol),
		Right:  e.rect.RightEdge().IsNear(p, tol),
		Top:    e.rect.TopEdge().IsNear(p, tol),
		Bottom: e.rect.BottomEdge().IsNear(p, tol),
	}
	return e.edges.Any()
}

// PointerUp ends a NORMAL edge drag.
func (e *Editor) PointerUp() {
	if e.state == StateNormal {
		e.edges = Edges{}
	}
}

// Drag applies the pointer position p according to the current mode. It
// returns false when the edit was rejected or nothing is selected.
func (e *Editor) Drag(p geometry.Point) bool {
	p = p.Snap()
	switch e.state {
	case StateNormal:
		return e.dragEdges(p)
	case StateScale:
		return e.scale(p)
	case StateMove:
		return e.move(p)
	}
	return false
}

func (e *Editor) dragEdges(p geometry.Point) bool {
	if !e.edges.Any() {
		return false
	}
	minDist := e.opts.MinDistance
	r := &e.rect
	if e.edges.Left {
		r.Left = geometry.Clamp(p.X, 0, r.Right-minDist)
	}
	if e.edges.Top {
		r.Top = geometry.Clamp(p.Y, r.Bottom+minDist, e.viewport.Height)
	}
	if e.edges.Bottom {
		r.Bottom = geometry.Clamp(p.Y, 0, r.Top-minDist)
	}
	if e.edges.Right {
		r.Right = geometry.Clamp(p.X, r.Left+minDist, e.viewport.Width)
	}
	return true
}

// ScaleAmount couples both pointer deltas into one growth value. Moving the
// pointer above the anchor shrinks the rectangle.
func ScaleAmount(anchor, p geometry.Point) float64 {
	dx := p.X - anchor.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - anchor.Y
	if dy < 0 {
		dy = -dy
	}
	amount := (dx + dy) / 2
	if p.Y > anchor.Y {
		amount = -amount
	}
	return amount
}

func (e *Editor) scale(p geometry.Point) bool {
	next := e.snapshot.Inset(geometry.Snap(ScaleAmount(e.anchor, p)))
	if !next.Within(e.viewport) {
		return false
	}
	if next.Width() <= e.opts.MinDistance || next.Height() <= e.opts.MinDistance {
		return false
	}
	e.rect = next
	return true
}

func (e *Editor) move(p geometry.Point) bool {
	width := e.snapshot.Width()
	height := e.snapshot.Height()
	next := e.snapshot.Translate(p.X-e.anchor.X, p.Y-e.anchor.Y)

	if next.Left < 0 {
		next.Left, next.Right = 0, width
	} else if next.Right > e.viewport.Width {
		next.Right = e.viewport.Width
		next.Left = next.Right - width
	}

	if next.Bottom < 0 {
		next.Bottom, next.Top = 0, height
	} else if next.Top > e.viewport.Height {
		next.Top = e.viewport.Height
		next.Bottom = next.Top - height
	}

	e.rect = next
	return true
}

// FullScreen makes the rectangle cover the whole viewport.
func (e *Editor) FullScreen() {
	e.rect = geometry.Full(e.viewport)
}

// Reset restores the default centred rectangle. It refuses when the
// viewport is smaller than the default size.
func (e *Editor) Reset() bool {
	if e.viewport.Width < e.opts.DefaultWidth || e.viewport.Height < e.opts.DefaultHeight {
		return false
	}
	e.rect = geometry.Centered(e.viewport, e.opts.DefaultWidth, e.opts.DefaultHeight)
	return true
}
