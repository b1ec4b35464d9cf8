package encoder

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/kettek/apng"
)

// APNG writes looping animated PNGs in full colour.
type APNG struct{}

func NewAPNG() *APNG {
	return &APNG{}
}

func (*APNG) Format() Format { return FormatAPNG }

func (*APNG) Encode(w io.Writer, frames []*image.RGBA, fps int) error {
	if err := checkFrames(frames, fps); err != nil {
		return err
	}
	if fps > math.MaxUint16 {
		fps = math.MaxUint16
	}
	anim := apng.APNG{Frames: make([]apng.Frame, len(frames))}
	for i, f := range frames {
		anim.Frames[i] = apng.Frame{
			Image:            f,
			DelayNumerator:   1,
			DelayDenominator: uint16(fps),
		}
	}
	if err := apng.Encode(w, anim); err != nil {
		return fmt.Errorf("encode apng: %w", err)
	}
	return nil
}
