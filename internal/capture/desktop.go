package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when the OS reports no active display.
var ErrNoDisplay = errors.New("no active displays found")

// DesktopSource reads regions of the OS desktop. Regions are in virtual
// screen coordinates, top-left origin.
type DesktopSource struct{}

func (DesktopSource) ReadRegion(ctx context.Context, r image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("empty region %v", r)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture desktop region: %w", err)
	}
	return img, nil
}

// DesktopBounds returns the union of all active display bounds.
func DesktopBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}
