package encoder

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// PNG8 writes palette-reduced screenshots.
type PNG8 struct {
	Dither bool
}

func NewPNG8() *PNG8 {
	return &PNG8{Dither: true}
}

func (*PNG8) Format() Format { return FormatPNG8 }

func (e *PNG8) Encode(w io.Writer, frame *image.RGBA) error {
	if frame == nil || frame.Bounds().Empty() {
		return fmt.Errorf("empty frame")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, paletted(frame, e.Dither)); err != nil {
		return fmt.Errorf("encode png8: %w", err)
	}
	return nil
}

// PNG writes full colour screenshots.
type PNG struct{}

func NewPNG() *PNG {
	return &PNG{}
}

func (*PNG) Format() Format { return FormatPNG }

func (*PNG) Encode(w io.Writer, frame *image.RGBA) error {
	if frame == nil || frame.Bounds().Empty() {
		return fmt.Errorf("empty frame")
	}
	if err := png.Encode(w, frame); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
