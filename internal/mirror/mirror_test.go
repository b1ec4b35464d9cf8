package mirror

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/input"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

type recordingSender struct {
	mu      sync.Mutex
	frames  [][]byte
	entered chan struct{}
	release chan struct{}
}

func (s *recordingSender) SendPreview(data []byte) error {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, data)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestPublisherPacing(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewPublisher(context.Background(), PublisherOptions{FPS: 10, Now: clock.now})
	defer p.Close()

	require.False(t, p.Due(), "no viewer attached")

	sender := &recordingSender{}
	p.SetSender(sender)
	require.True(t, p.Due())

	p.Offer(solid(8, 8, color.RGBA{R: 0xff, A: 0xff}))
	require.False(t, p.Due())

	clock.t = clock.t.Add(50 * time.Millisecond)
	require.False(t, p.Due())
	clock.t = clock.t.Add(50 * time.Millisecond)
	require.True(t, p.Due())

	require.Eventually(t, func() bool { return sender.count() == 1 }, 5*time.Second, time.Millisecond)

	img, err := encoder.NewJPEGDecoder().Decode(sender.frames[0])
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	p.SetSender(nil)
	require.False(t, p.Due())
}

func TestPublisherDropsWhileBusy(t *testing.T) {
	sender := &recordingSender{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := NewPublisher(context.Background(), PublisherOptions{FPS: 30})
	p.SetSender(sender)

	p.Offer(solid(4, 4, color.RGBA{A: 0xff}))
	<-sender.entered // the worker is now blocked sending the first frame

	p.Offer(solid(4, 4, color.RGBA{A: 0xff})) // buffered
	p.Offer(solid(4, 4, color.RGBA{A: 0xff})) // dropped
	_, dropped := p.Stats()
	require.EqualValues(t, 1, dropped)

	close(sender.release)
	go func() {
		for range sender.entered {
		}
	}()
	p.Close()
	close(sender.entered)

	sent, dropped := p.Stats()
	assert.EqualValues(t, 2, sent)
	assert.EqualValues(t, 1, dropped)
}

type failingSender struct{}

func (failingSender) SendPreview([]byte) error { return errors.New("closed") }

func TestPublisherSendFailureCountsAsDrop(t *testing.T) {
	p := NewPublisher(context.Background(), PublisherOptions{})
	p.SetSender(failingSender{})
	p.Offer(solid(4, 4, color.RGBA{A: 0xff}))
	p.Close()

	sent, dropped := p.Stats()
	assert.Zero(t, sent)
	assert.EqualValues(t, 1, dropped)
}

type loopback struct {
	deliver func([]byte)
}

func (l loopback) SendControl(data []byte) error {
	l.deliver(data)
	return nil
}

func TestControlRoundTrip(t *testing.T) {
	ctx := context.Background()
	q := input.NewQueue(0)
	remote := Remote{Sender: loopback{deliver: ControlHandler(ctx, q)}}

	events := []input.Event{
		{Type: input.EventMouseDown, X: 10, Y: 20, Button: input.MouseButtonLeft},
		{Type: input.EventKeyDown, Key: input.KeyS, Modifiers: input.ModCtrl},
	}
	for _, e := range events {
		require.NoError(t, remote.Inject(e))
	}
	require.Equal(t, events, q.Drain())
}

func TestControlHandlerDropsMalformed(t *testing.T) {
	q := input.NewQueue(0)
	h := ControlHandler(context.Background(), q)

	h([]byte("{"))
	h([]byte(`{"type":"teleport"}`))
	h([]byte(`{"type":"key_down"}`))
	require.Empty(t, q.Drain())
}

func TestPreviewHandler(t *testing.T) {
	ctx := context.Background()
	data, err := encoder.NewJPEGEncoder(90).Encode(solid(16, 8, color.RGBA{B: 0xff, A: 0xff}))
	require.NoError(t, err)

	var shown []*image.RGBA
	h := PreviewHandler(ctx, encoder.NewJPEGDecoder(), func(img *image.RGBA) {
		shown = append(shown, img)
	})
	h(data)
	h([]byte("not a jpeg"))

	require.Len(t, shown, 1)
	require.Equal(t, 16, shown[0].Bounds().Dx())
	require.Equal(t, 8, shown[0].Bounds().Dy())
}
