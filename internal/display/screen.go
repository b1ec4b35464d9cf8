package display

import (
	"context"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/junsooki/cliprec/internal/capture"
)

// ScreenSource reads regions back from an ebiten render target. It is only
// valid inside Draw for the image it wraps.
type ScreenSource struct {
	Image *ebiten.Image
}

func (s ScreenSource) ReadRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Empty() || !r.In(s.Image.Bounds()) {
		return nil, fmt.Errorf("region %v outside render target %v", r, s.Image.Bounds())
	}
	dst := capture.AcquireFrame(image.Rect(0, 0, r.Dx(), r.Dy()))
	s.Image.SubImage(r).(*ebiten.Image).ReadPixels(dst.Pix)
	return dst, nil
}
