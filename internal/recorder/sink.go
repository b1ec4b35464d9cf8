package recorder

import (
	"context"
	"image"

	"github.com/junsooki/cliprec/internal/encoder"
)

// Sink receives a finished recording instead of the default file writer.
// The frames are recycled once Write returns, so a sink must not retain
// them.
type Sink interface {
	Write(ctx context.Context, enc encoder.Animated, frames []*image.RGBA, fps int) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, enc encoder.Animated, frames []*image.RGBA, fps int) error

func (f SinkFunc) Write(ctx context.Context, enc encoder.Animated, frames []*image.RGBA, fps int) error {
	return f(ctx, enc, frames, fps)
}

// StillSink receives a screenshot instead of the default file writer.
type StillSink interface {
	Write(ctx context.Context, enc encoder.Still, frame *image.RGBA) error
}

// StillSinkFunc adapts a function to StillSink.
type StillSinkFunc func(ctx context.Context, enc encoder.Still, frame *image.RGBA) error

func (f StillSinkFunc) Write(ctx context.Context, enc encoder.Still, frame *image.RGBA) error {
	return f(ctx, enc, frame)
}
