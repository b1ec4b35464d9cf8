package encoder

import (
	"fmt"
	"image"
	"image/gif"
	"io"
)

// GIF writes looping animated GIFs with one median-cut palette per frame.
type GIF struct {
	// Dither enables Floyd-Steinberg error diffusion.
	Dither bool
}

func NewGIF() *GIF {
	return &GIF{Dither: true}
}

func (*GIF) Format() Format { return FormatGIF }

func (e *GIF) Encode(w io.Writer, frames []*image.RGBA, fps int) error {
	if err := checkFrames(frames, fps); err != nil {
		return err
	}
	delay := GIFDelay(fps)
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}
	for i, f := range frames {
		anim.Image[i] = paletted(f, e.Dither)
		anim.Delay[i] = delay
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// GIFDelay converts fps into a per-frame delay in hundredths of a second,
// rounded and never zero.
func GIFDelay(fps int) int {
	return max(1, (100+fps/2)/fps)
}
