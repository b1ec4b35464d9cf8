// Package capture holds the recording session and the pixel sources it
// reads frames from.
package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"time"
)

// Frame is one captured region of the render target.
type Frame struct {
	Image     *image.RGBA
	Timestamp time.Time
}

// Source reads the pixels inside r. The returned image must have exactly the
// size of r; its origin does not matter.
type Source interface {
	ReadRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, r image.Rectangle) (*image.RGBA, error)

func (f SourceFunc) ReadRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error) {
	return f(ctx, r)
}

// ImageSource serves regions of a fixed image. Pixels outside the image
// read as transparent.
type ImageSource struct {
	Image image.Image
}

func (s ImageSource) ReadRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("empty region %v", r)
	}
	dst := AcquireFrame(image.Rect(0, 0, r.Dx(), r.Dy()))
	clear(dst.Pix)
	draw.Draw(dst, dst.Bounds(), s.Image, r.Min, draw.Src)
	return dst, nil
}
