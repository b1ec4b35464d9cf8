package display

import (
	"context"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/junsooki/cliprec/internal/geometry"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/overlay"
	"github.com/junsooki/cliprec/internal/recorder"
)

// Host runs a scene with the capture overlay on top.
type Host struct {
	ctx      context.Context
	scene    Scene
	recorder *recorder.Recorder
	renderer *overlay.Renderer

	// remote delivers control events from mirror viewers; may be nil.
	remote *input.Queue
	// mirror receives full-screen frames; may be nil.
	mirror FramePublisher

	poller poller
	width  int
	height int
}

// HostOptions wires the optional collaborators of a Host.
type HostOptions struct {
	Renderer *overlay.Renderer
	Remote   *input.Queue
	Mirror   FramePublisher
}

// NewHost creates the game. The recorder must be sized for the initial
// window; later resizes are forwarded from Layout.
func NewHost(ctx context.Context, scene Scene, rec *recorder.Recorder, opts HostOptions) *Host {
	if opts.Renderer == nil {
		opts.Renderer = &overlay.Renderer{}
	}
	v := rec.Editor().Viewport()
	return &Host{
		ctx:      ctx,
		scene:    scene,
		recorder: rec,
		renderer: opts.Renderer,
		remote:   opts.Remote,
		mirror:   opts.Mirror,
		width:    int(v.Width),
		height:   int(v.Height),
	}
}

// Run opens the window and blocks until it is closed. Must be called from
// the main goroutine.
func (h *Host) Run(title string) error {
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}

// --- ebiten.Game interface ---

func (h *Host) Update() error {
	if h.ctx.Err() != nil {
		return ebiten.Termination
	}
	h.recorder.SetViewport(h.ctx, geometry.Viewport{Width: float64(h.width), Height: float64(h.height)})
	h.recorder.Poll(h.ctx)

	local := h.poller.poll(func(x, y int) (float64, float64) {
		return float64(x), float64(y)
	})
	for _, e := range local {
		h.recorder.HandleEvent(h.ctx, e)
	}
	if h.remote != nil {
		for _, e := range h.remote.Drain() {
			if h.recorder.HandleEvent(h.ctx, e) {
				logger.Tracef(h.ctx, "remote %s %s handled", e.Type, e.Key)
			}
		}
	}
	return h.scene.Update()
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.scene.Draw(screen)
	h.recorder.Capture(h.ctx, ScreenSource{Image: screen}, time.Now())
	h.renderer.Draw(screen, h.recorder.View())

	if h.mirror != nil && h.mirror.Due() {
		img, err := ScreenSource{Image: screen}.ReadRegion(h.ctx, screen.Bounds())
		if err != nil {
			logger.Warnf(h.ctx, "mirror readback: %v", err)
			return
		}
		h.mirror.Offer(img)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.width, h.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

var _ ebiten.Game = (*Host)(nil)
