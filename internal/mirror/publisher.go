// Package mirror streams the host window to remote viewers as JPEG frames and
// turns their control messages back into input events.
package mirror

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/junsooki/cliprec/internal/capture"
	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/transport"
)

// DefaultFPS is the preview rate when none is configured.
const DefaultFPS = 15

// PublisherOptions configures a Publisher.
type PublisherOptions struct {
	FPS     int
	Encoder encoder.Preview
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Publisher paces, encodes and sends preview frames. Offer never blocks the
// game loop: while the encoder is busy new frames are dropped.
type Publisher struct {
	enc      encoder.Preview
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	sender transport.PreviewSender
	last   time.Time

	frames chan *image.RGBA
	done   chan struct{}

	sent    atomic.Int64
	dropped atomic.Int64
}

// NewPublisher starts the encode goroutine. It runs until Close.
func NewPublisher(ctx context.Context, opts PublisherOptions) *Publisher {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Encoder == nil {
		opts.Encoder = encoder.NewJPEGEncoder(70)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Publisher{
		enc:      opts.Encoder,
		interval: time.Second / time.Duration(opts.FPS),
		now:      opts.Now,
		frames:   make(chan *image.RGBA, 1),
		done:     make(chan struct{}),
	}
	go p.loop(ctx)
	return p
}

// SetSender attaches the channel of a newly connected viewer. nil detaches.
func (p *Publisher) SetSender(s transport.PreviewSender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = s
}

// Due reports whether a viewer is attached and the next frame is due.
func (p *Publisher) Due() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sender == nil {
		return false
	}
	return p.last.IsZero() || p.now().Sub(p.last) >= p.interval
}

// Offer queues img for sending and takes ownership of it.
func (p *Publisher) Offer(img *image.RGBA) {
	p.mu.Lock()
	p.last = p.now()
	p.mu.Unlock()

	select {
	case p.frames <- img:
	default:
		p.dropped.Add(1)
		capture.RecycleFrame(img)
	}
}

// Stats returns the number of frames sent and dropped so far.
func (p *Publisher) Stats() (sent, dropped int64) {
	return p.sent.Load(), p.dropped.Load()
}

// Close stops the encode goroutine. Offer must not be called afterwards.
func (p *Publisher) Close() {
	close(p.frames)
	<-p.done
}

func (p *Publisher) loop(ctx context.Context) {
	defer close(p.done)
	for img := range p.frames {
		p.publish(ctx, img)
	}
}

func (p *Publisher) publish(ctx context.Context, img *image.RGBA) {
	defer capture.RecycleFrame(img)

	p.mu.Lock()
	sender := p.sender
	p.mu.Unlock()
	if sender == nil {
		p.dropped.Add(1)
		return
	}

	data, err := p.enc.Encode(img)
	if err != nil {
		logger.Errorf(ctx, "encode preview: %v", err)
		p.dropped.Add(1)
		return
	}
	if err := sender.SendPreview(data); err != nil {
		logger.Tracef(ctx, "send preview: %v", err)
		p.dropped.Add(1)
		return
	}
	p.sent.Add(1)
}
