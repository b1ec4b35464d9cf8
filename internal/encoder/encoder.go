// Package encoder turns captured frames into animated GIF or APNG files,
// PNG screenshots and JPEG previews.
package encoder

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// Format identifies an output file format.
type Format int

const (
	FormatGIF Format = iota + 1
	FormatAPNG
	FormatPNG8
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatGIF:
		return "gif"
	case FormatAPNG:
		return "apng"
	case FormatPNG8:
		return "png8"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Ext is the file extension written for f, without the dot. Both PNG
// variants share "png".
func (f Format) Ext() string {
	if f == FormatPNG8 {
		return "png"
	}
	return f.String()
}

// Animated reports whether f holds a frame sequence.
func (f Format) Animated() bool {
	return f == FormatGIF || f == FormatAPNG
}

// ParseFormat parses the names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gif":
		return FormatGIF, nil
	case "apng":
		return FormatAPNG, nil
	case "png8":
		return FormatPNG8, nil
	case "png":
		return FormatPNG, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// Animated encodes a frame sequence played back at fps.
type Animated interface {
	Format() Format
	Encode(w io.Writer, frames []*image.RGBA, fps int) error
}

// Still encodes a single frame.
type Still interface {
	Format() Format
	Encode(w io.Writer, frame *image.RGBA) error
}

// Preview encodes frames for the live mirror.
type Preview interface {
	Encode(img *image.RGBA) ([]byte, error)
	SetQuality(quality int)
}

// Decoder turns preview payloads back into images.
type Decoder interface {
	Decode(data []byte) (*image.RGBA, error)
}

// ForFormat returns the default animated encoder for f.
func ForFormat(f Format) (Animated, error) {
	switch f {
	case FormatGIF:
		return NewGIF(), nil
	case FormatAPNG:
		return NewAPNG(), nil
	}
	return nil, fmt.Errorf("%s is not an animated format", f)
}

// StillForFormat returns the default still encoder for f.
func StillForFormat(f Format) (Still, error) {
	switch f {
	case FormatPNG8:
		return NewPNG8(), nil
	case FormatPNG:
		return NewPNG(), nil
	}
	return nil, fmt.Errorf("%s is not a still format", f)
}

func checkFrames(frames []*image.RGBA, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames")
	}
	if fps <= 0 {
		return fmt.Errorf("invalid fps %d", fps)
	}
	size := frames[0].Bounds().Size()
	for i, f := range frames {
		if f.Bounds().Size() != size {
			return fmt.Errorf("frame %d is %v, expected %v", i, f.Bounds().Size(), size)
		}
	}
	return nil
}
