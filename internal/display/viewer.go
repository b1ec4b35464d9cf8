package display

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/junsooki/cliprec/internal/input"
)

// InputCallback is called with every input event of the viewer window,
// already mapped into the publisher's render target coordinates.
type InputCallback func(e input.Event)

// Viewer shows the mirrored screen of a remote publisher and forwards the
// user's input back to it.
type Viewer struct {
	mu          sync.Mutex
	frame       *image.RGBA
	ebitenImage *ebiten.Image
	onInput     InputCallback

	poller poller
	status string
}

// NewViewer creates a viewer. onInput may be nil for a view-only window.
func NewViewer(onInput InputCallback) *Viewer {
	return &Viewer{onInput: onInput, status: "waiting for publisher"}
}

// SetFrame updates the displayed frame (called from network goroutine).
func (v *Viewer) SetFrame(img *image.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = img
}

// SetStatus replaces the text shown while no frame has arrived.
func (v *Viewer) SetStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (v *Viewer) Run(title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

// --- ebiten.Game interface ---

func (v *Viewer) Update() error {
	v.mu.Lock()
	frame := v.frame
	v.mu.Unlock()
	if frame == nil || v.onInput == nil {
		return nil
	}

	sw, sh := ebiten.WindowSize()
	fw := float64(frame.Bounds().Dx())
	fh := float64(frame.Bounds().Dy())
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), fw, fh)
	events := v.poller.poll(func(x, y int) (float64, float64) {
		return (float64(x) - offsetX) / scale, (float64(y) - offsetY) / scale
	})
	for _, e := range events {
		v.onInput(e)
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	frame := v.frame
	status := v.status
	v.mu.Unlock()

	if frame == nil {
		ebitenutil.DebugPrintAt(screen, status, 8, 8)
		return
	}

	if v.ebitenImage == nil ||
		v.ebitenImage.Bounds().Dx() != frame.Bounds().Dx() ||
		v.ebitenImage.Bounds().Dy() != frame.Bounds().Dy() {
		v.ebitenImage = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
	}
	v.ebitenImage.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := float64(frame.Bounds().Dx()), float64(frame.Bounds().Dy())
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), fw, fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(v.ebitenImage, op)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
