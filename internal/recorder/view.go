package recorder

import (
	"slices"

	"github.com/junsooki/cliprec/internal/editor"
	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/geometry"
)

// View is what the overlay needs to draw one frame.
type View struct {
	// Visible is false when the overlay is disabled.
	Visible bool
	// Chrome is false while capturing so edges and text stay out of the
	// captured frames. It is back on while the recording is written.
	Chrome bool

	Viewport geometry.Viewport
	Rect     geometry.Rect
	Edges    editor.Edges
	State    editor.State
	Options  editor.Options

	Capturing bool
	Writing   bool
	Frames    int
	Limit     int
	FPS       int
	Formats   []encoder.Format
	// ShowFPS is set for a while after a preset was chosen.
	ShowFPS bool

	LastError error
}

// View snapshots the recorder state.
func (r *Recorder) View() View {
	v := View{
		Visible:   r.active,
		Chrome:    r.active && !r.session.Capturing(),
		Viewport:  r.editor.Viewport(),
		Rect:      r.editor.Rect(),
		Edges:     r.editor.Edges(),
		State:     r.editor.State(),
		Options:   r.editor.Options(),
		Capturing: r.session.Capturing(),
		Writing:   r.session.Writing(),
		Frames:    r.session.Len(),
		Limit:     r.session.Limit(),
		FPS:       r.session.FPS(),
		Formats:   slices.Clone(r.selected),
		ShowFPS:   r.now().Before(r.indicatorUntil),
	}
	if r.last != nil {
		v.LastError = r.last.Err
	}
	return v
}
