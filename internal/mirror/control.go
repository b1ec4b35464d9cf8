package mirror

import (
	"context"
	"fmt"
	"image"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/transport"
)

// ControlHandler returns a callback for the control channel that decodes
// each message and hands the event to dst. Malformed messages are logged and
// dropped.
func ControlHandler(ctx context.Context, dst input.Injector) func(data []byte) {
	return func(data []byte) {
		e, err := input.Unmarshal(data)
		if err != nil {
			logger.Warnf(ctx, "control message: %v", err)
			return
		}
		if err := dst.Inject(e); err != nil {
			logger.Warnf(ctx, "inject %s: %v", e.Type, err)
		}
	}
}

// Remote sends input events to a publisher over the control channel.
type Remote struct {
	Sender transport.ControlSender
}

func (r Remote) Inject(e input.Event) error {
	data, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	return r.Sender.SendControl(data)
}

var _ input.Injector = Remote{}

// PreviewHandler returns a callback for the preview channel that decodes
// each frame and passes it to show. Undecodable frames are skipped.
func PreviewHandler(ctx context.Context, dec encoder.Decoder, show func(*image.RGBA)) func(data []byte) {
	return func(data []byte) {
		img, err := dec.Decode(data)
		if err != nil {
			logger.Debugf(ctx, "decode preview: %v", err)
			return
		}
		show(img)
	}
}
