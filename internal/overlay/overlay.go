// Package overlay draws the capture rectangle and the recorder status on top
// of the game screen.
package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/junsooki/cliprec/internal/editor"
	"github.com/junsooki/cliprec/internal/geometry"
	"github.com/junsooki/cliprec/internal/recorder"
)

// Renderer draws a recorder.View. The zero value uses the stock colours.
type Renderer struct {
	EdgeColor     color.Color
	SelectedColor color.Color
	ShadeColor    color.Color
}

var (
	defaultEdge     = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	defaultSelected = color.RGBA{R: 0xff, G: 0xc8, B: 0x20, A: 0xff}
	defaultShade    = color.RGBA{A: 0x60}
)

func pick(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

// Draw renders v onto screen. Nothing is drawn while the overlay is
// disabled or recording.
func (r *Renderer) Draw(screen *ebiten.Image, v recorder.View) {
	if !v.Visible || !v.Chrome {
		return
	}
	r.drawShade(screen, v)
	r.drawEdges(screen, v)
	ebitenutil.DebugPrintAt(screen, statusLine(v), 4, 4)
	if v.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d fps, %d frames", v.FPS, v.Limit), 4, 20)
	}
}

// drawShade dims everything outside the rectangle.
func (r *Renderer) drawShade(screen *ebiten.Image, v recorder.View) {
	shade := pick(r.ShadeColor, defaultShade)
	w, h := float32(v.Viewport.Width), float32(v.Viewport.Height)
	left := float32(v.Rect.Left)
	right := float32(v.Rect.Right)
	top := h - float32(v.Rect.Top)
	bottom := h - float32(v.Rect.Bottom)

	vector.DrawFilledRect(screen, 0, 0, w, top, shade, false)
	vector.DrawFilledRect(screen, 0, bottom, w, h-bottom, shade, false)
	vector.DrawFilledRect(screen, 0, top, left, bottom-top, shade, false)
	vector.DrawFilledRect(screen, right, top, w-right, bottom-top, shade, false)
}

func (r *Renderer) drawEdges(screen *ebiten.Image, v recorder.View) {
	edge := pick(r.EdgeColor, defaultEdge)
	selected := pick(r.SelectedColor, defaultSelected)
	thickness := float32(v.Options.BoundarySize)

	segments := []struct {
		seg geometry.Segment
		on  bool
	}{
		{v.Rect.LeftEdge(), v.Edges.Left},
		{v.Rect.TopEdge(), v.Edges.Top},
		{v.Rect.RightEdge(), v.Edges.Right},
		{v.Rect.BottomEdge(), v.Edges.Bottom},
	}
	for _, s := range segments {
		clr := edge
		if s.on {
			clr = selected
		}
		h := v.Viewport.Height
		vector.StrokeLine(screen,
			float32(s.seg.A.X), float32(h-s.seg.A.Y),
			float32(s.seg.B.X), float32(h-s.seg.B.Y),
			thickness, clr, false)
	}

	// grab handles on the corners
	size := float32(v.Options.TouchSize)
	for _, p := range v.Rect.Corners() {
		x := float32(p.X) - size/2
		y := float32(v.Viewport.Height-p.Y) - size/2
		vector.StrokeRect(screen, x, y, size, size, 1, edge, false)
	}
}

func statusLine(v recorder.View) string {
	w, h := v.Rect.PixelSize()
	parts := []string{fmt.Sprintf("%dx%d", w, h)}
	if v.State != editor.StateNormal {
		parts = append(parts, v.State.String())
	}
	names := make([]string, len(v.Formats))
	for i, f := range v.Formats {
		names[i] = f.String()
	}
	parts = append(parts, strings.Join(names, "+"))
	if v.Writing {
		parts = append(parts, "writing...")
	}
	if v.LastError != nil {
		parts = append(parts, "last write failed")
	}
	return strings.Join(parts, "  ")
}
