package encoder

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// paletted reduces img to at most 256 colours with a median-cut palette.
func paletted(img image.Image, dither bool) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, 256), img)
	if len(palette) == 0 {
		palette = color.Palette{color.Transparent}
	}
	b := img.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	var drawer draw.Drawer = draw.Src
	if dither {
		drawer = draw.FloydSteinberg
	}
	drawer.Draw(dst, dst.Bounds(), img, b.Min)
	return dst
}
