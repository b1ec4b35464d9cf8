package recorder

import (
	"context"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/junsooki/cliprec/internal/encoder"
)

// flush encodes one recording into every selected format. Failures of
// single formats do not stop the others; they are combined into Err.
func (r *Recorder) flush(ctx context.Context, j flushJob) FlushResult {
	defer j.job.Release()

	res := FlushResult{Frames: len(j.job.Frames)}
	images := j.job.Images()
	var errs *multierror.Error
	for _, f := range j.formats {
		enc, err := r.animatedEncoder(f)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		logger.Debugf(ctx, "encoding %d frames as %s", len(images), f)

		if sink, ok := r.opts.Sinks[f]; ok {
			if err := sink.Write(ctx, enc, images, j.job.FPS); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s sink: %w", f, err))
			}
			continue
		}
		if r.opts.Output == nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", f, ErrNoOutput))
			continue
		}
		p, err := r.opts.Output.Write(f.Ext(), func(w io.Writer) error {
			return enc.Encode(w, images, j.job.FPS)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write %s: %w", f, err))
			continue
		}
		res.Paths = append(res.Paths, p)
	}
	res.Err = errs.ErrorOrNil()
	return res
}

func (r *Recorder) animatedEncoder(f encoder.Format) (encoder.Animated, error) {
	if enc, ok := r.opts.Encoders[f]; ok {
		return enc, nil
	}
	return encoder.ForFormat(f)
}
