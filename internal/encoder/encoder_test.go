package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int, shift uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x*4) + shift, G: uint8(y * 4), B: shift, A: 0xff})
		}
	}
	return img
}

func testFrames(n int) []*image.RGBA {
	frames := make([]*image.RGBA, n)
	for i := range frames {
		frames[i] = gradient(32, 24, uint8(i*20))
	}
	return frames
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatGIF, FormatAPNG, FormatPNG8, FormatPNG} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("webp")
	assert.Error(t, err)

	got, err := ParseFormat(" GIF ")
	require.NoError(t, err)
	assert.Equal(t, FormatGIF, got)
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, "gif", FormatGIF.Ext())
	assert.Equal(t, "apng", FormatAPNG.Ext())
	assert.Equal(t, "png", FormatPNG8.Ext())
	assert.Equal(t, "png", FormatPNG.Ext())
	assert.True(t, FormatAPNG.Animated())
	assert.False(t, FormatPNG.Animated())
}

func TestGIFDelay(t *testing.T) {
	assert.Equal(t, 6, GIFDelay(16))
	assert.Equal(t, 3, GIFDelay(30))
	assert.Equal(t, 10, GIFDelay(10))
	assert.Equal(t, 1, GIFDelay(1000))
}

func TestGIFEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGIF().Encode(&buf, testFrames(4), 16))

	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, anim.Image, 4)
	assert.Equal(t, []int{6, 6, 6, 6}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount)
	assert.Equal(t, image.Rect(0, 0, 32, 24), anim.Image[0].Bounds())
	assert.LessOrEqual(t, len(anim.Image[0].Palette), 256)
}

func TestAPNGEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewAPNG().Encode(&buf, testFrames(3), 30))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("acTL")))

	// the default image stays readable by plain PNG decoders
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
}

func TestAnimatedRejectsBadInput(t *testing.T) {
	for _, enc := range []Animated{NewGIF(), NewAPNG()} {
		t.Run(enc.Format().String(), func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, enc.Encode(&buf, nil, 16))
			assert.Error(t, enc.Encode(&buf, testFrames(1), 0))
			mixed := []*image.RGBA{gradient(4, 4, 0), gradient(5, 4, 0)}
			assert.Error(t, enc.Encode(&buf, mixed, 16))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestStillEncoders(t *testing.T) {
	frame := gradient(20, 10, 7)

	var buf bytes.Buffer
	require.NoError(t, NewPNG8().Encode(&buf, frame))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	_, isPaletted := img.(*image.Paletted)
	assert.True(t, isPaletted)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	buf.Reset()
	require.NoError(t, NewPNG().Encode(&buf, frame))
	img, err = png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, frame.RGBAAt(3, 4), color.RGBAModel.Convert(img.At(3, 4)))

	assert.Error(t, NewPNG().Encode(&buf, nil))
	assert.Error(t, NewPNG8().Encode(&buf, image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestForFormat(t *testing.T) {
	a, err := ForFormat(FormatAPNG)
	require.NoError(t, err)
	assert.Equal(t, FormatAPNG, a.Format())
	_, err = ForFormat(FormatPNG)
	assert.Error(t, err)

	s, err := StillForFormat(FormatPNG8)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG8, s.Format())
	_, err = StillForFormat(FormatGIF)
	assert.Error(t, err)
}

func TestJPEGRoundTrip(t *testing.T) {
	enc := NewJPEGEncoder(500)
	assert.Equal(t, 100, enc.Quality())
	enc.SetQuality(-3)
	assert.Equal(t, 1, enc.Quality())
	enc.SetQuality(80)

	data, err := enc.Encode(gradient(16, 8, 0))
	require.NoError(t, err)

	img, err := NewJPEGDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())

	_, err = NewJPEGDecoder().Decode([]byte("nope"))
	assert.Error(t, err)
}
