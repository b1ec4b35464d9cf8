// Package display hosts the Ebitengine games: the recording host that runs a
// scene under the capture overlay, and the mirror viewer.
package display

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the content recorded by the host.
type Scene interface {
	Update() error
	Draw(screen *ebiten.Image)
}

// FramePublisher receives full-screen frames for the live mirror.
type FramePublisher interface {
	// Due reports whether the publisher wants a frame now.
	Due() bool
	// Offer hands over a frame. The publisher owns img afterwards.
	Offer(img *image.RGBA)
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
