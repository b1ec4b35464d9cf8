// Package recorder is the capture overlay controller. It routes keyboard and
// pointer events to the rectangle editor, runs the capture session on every
// drawn frame and hands finished recordings to a background flush worker.
//
// A Recorder is owned by the game loop goroutine. Only the flush worker runs
// elsewhere, and it reports back through a channel drained by Poll or Wait.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/junsooki/cliprec/internal/capture"
	"github.com/junsooki/cliprec/internal/editor"
	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/geometry"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/output"
)

const (
	presetLimit = 30
	presetFPS   = 30

	indicatorDuration = 3 * time.Second
)

// ErrNoOutput is returned when a format has neither a sink nor an output
// layout to write to.
var ErrNoOutput = errors.New("no output configured")

// Options configures a Recorder.
type Options struct {
	Editor  editor.Options
	Session capture.SessionOptions

	// Formats are the enabled recording formats. Empty means GIF and APNG.
	Formats []encoder.Format
	// StillFormat is the screenshot format. Zero means PNG8.
	StillFormat encoder.Format

	// Output receives files for formats without a sink.
	Output *output.Layout
	// Sinks override the file writer per format.
	Sinks map[encoder.Format]Sink
	// StillSink overrides the file writer for screenshots.
	StillSink StillSink
	// Encoders override the default encoder per format.
	Encoders map[encoder.Format]encoder.Animated
	// StillEncoder overrides the default screenshot encoder.
	StillEncoder encoder.Still

	// AsyncEncode runs flushes on the background worker. When false, Stop
	// encodes inline and clears immediately.
	AsyncEncode bool

	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// FlushResult describes one finished flush or screenshot.
type FlushResult struct {
	Paths  []string
	Frames int
	Err    error
}

type flushJob struct {
	job     *capture.Job
	formats []encoder.Format
}

// Recorder ties the editor, the capture session and the writers together.
type Recorder struct {
	opts    Options
	editor  *editor.Editor
	session *capture.Session
	now     func() time.Time

	active         bool
	pointerDown    bool
	pointer        geometry.Point
	selected       []encoder.Format
	indicatorUntil time.Time
	shotPending    bool

	pending bool
	last    *FlushResult
	// nextViewport holds a window size change that arrived during a session.
	nextViewport *geometry.Viewport

	jobs    chan flushJob
	results chan FlushResult
	wg      sync.WaitGroup
	closed  bool
}

// New creates an active recorder for viewport and starts its flush worker
// when AsyncEncode is set. Close stops the worker.
func New(ctx context.Context, viewport geometry.Viewport, opts Options) *Recorder {
	if len(opts.Formats) == 0 {
		opts.Formats = []encoder.Format{encoder.FormatGIF, encoder.FormatAPNG}
	}
	if opts.StillFormat == 0 {
		opts.StillFormat = encoder.FormatPNG8
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Session.Now == nil {
		opts.Session.Now = now
	}
	r := &Recorder{
		opts:     opts,
		editor:   editor.New(viewport, opts.Editor),
		session:  capture.NewSession(opts.Session),
		now:      now,
		active:   true,
		selected: slices.Clone(opts.Formats),
		results:  make(chan FlushResult, 1),
	}
	if opts.AsyncEncode {
		r.jobs = make(chan flushJob, 1)
		r.wg.Add(1)
		go r.worker(ctx)
	}
	return r
}

func (r *Recorder) worker(ctx context.Context) {
	defer r.wg.Done()
	for j := range r.jobs {
		r.results <- r.flush(ctx, j)
	}
}

// Close waits for a pending flush and stops the worker.
func (r *Recorder) Close(ctx context.Context) error {
	err := r.Wait(ctx)
	if r.jobs != nil && !r.closed {
		r.closed = true
		close(r.jobs)
		r.wg.Wait()
	}
	return err
}

func (r *Recorder) Editor() *editor.Editor    { return r.editor }
func (r *Recorder) Session() *capture.Session { return r.session }
func (r *Recorder) Active() bool              { return r.active }

// Selected returns the formats the next flush writes.
func (r *Recorder) Selected() []encoder.Format {
	return slices.Clone(r.selected)
}

// LastResult returns the outcome of the latest flush or screenshot.
func (r *Recorder) LastResult() *FlushResult {
	return r.last
}

// locked reports whether the rectangle must not change.
func (r *Recorder) locked() bool {
	return r.session.Busy()
}

// SetViewport propagates a window size change to the editor. During a
// session the change is held back until the recording has been written, so
// the rectangle keeps matching the frozen frame size. A resize that cuts
// the captured region off stops the recording.
func (r *Recorder) SetViewport(ctx context.Context, v geometry.Viewport) {
	if !r.session.Busy() {
		r.nextViewport = nil
		r.editor.SetViewport(v)
		return
	}
	if v.Snap() == r.editor.Viewport() {
		r.nextViewport = nil
		return
	}
	r.nextViewport = &v
	if !r.session.Capturing() {
		return
	}
	region := r.editor.Rect().ImageRect(r.editor.Viewport().Height)
	if !region.In(image.Rect(0, 0, int(v.Width), int(v.Height))) {
		logger.Infof(ctx, "window resized to %vx%v, stopping the recording", v.Width, v.Height)
		r.Stop(ctx)
	}
}

func (r *Recorder) applyViewport() {
	if r.nextViewport == nil || r.session.Busy() {
		return
	}
	r.editor.SetViewport(*r.nextViewport)
	r.nextViewport = nil
}

// HandleEvent applies one input event and reports whether it was handled.
func (r *Recorder) HandleEvent(ctx context.Context, e input.Event) bool {
	switch e.Type {
	case input.EventMouseMove, input.EventMouseDown, input.EventMouseUp:
		return r.handlePointer(e)
	case input.EventKeyDown:
		return r.keyDown(ctx, e)
	case input.EventKeyUp:
		return r.keyUp(e)
	}
	return false
}

func (r *Recorder) handlePointer(e input.Event) bool {
	r.pointer = r.editor.Viewport().FromScreen(e.X, e.Y)
	if e.Type == input.EventMouseUp && e.Button == input.MouseButtonLeft {
		r.pointerDown = false
	}
	if !r.active || r.locked() {
		return false
	}
	switch e.Type {
	case input.EventMouseDown:
		if e.Button != input.MouseButtonLeft {
			return false
		}
		r.pointerDown = true
		return r.editor.PointerDown(r.pointer)
	case input.EventMouseUp:
		if e.Button != input.MouseButtonLeft {
			return false
		}
		r.editor.PointerUp()
		return true
	default:
		if r.editor.State() == editor.StateNormal && !r.pointerDown {
			return false
		}
		return r.editor.Drag(r.pointer)
	}
}

func (r *Recorder) keyDown(ctx context.Context, e input.Event) bool {
	if e.Key == input.KeyGrave {
		r.active = !r.active
		logger.Debugf(ctx, "overlay active: %v", r.active)
		return true
	}
	if !r.active {
		return false
	}

	switch e.Key {
	case input.KeyS:
		if e.Ctrl() {
			return r.RequestScreenshot()
		}
		if r.session.Capturing() {
			return r.Stop(ctx)
		}
		return r.Start(ctx)
	}

	if r.locked() {
		return false
	}
	switch e.Key {
	case input.KeyF:
		r.editor.FullScreen()
		return true
	case input.KeyR:
		return r.editor.Reset()
	case input.KeyShift:
		return r.editor.BeginScale(r.pointer)
	case input.KeySpace:
		return r.editor.BeginMove(r.pointer)
	case input.Key1:
		return r.selectOnly(encoder.FormatGIF)
	case input.Key2:
		return r.selectOnly(encoder.FormatAPNG)
	case input.Key3:
		r.selected = slices.Clone(r.opts.Formats)
		return true
	case input.Key4:
		r.session.SetLimit(presetLimit)
		r.session.SetFPS(presetFPS)
		r.indicatorUntil = r.now().Add(indicatorDuration)
		return true
	}
	return false
}

func (r *Recorder) keyUp(e input.Event) bool {
	switch e.Key {
	case input.KeyShift:
		return r.editor.End(editor.StateScale)
	case input.KeySpace:
		return r.editor.End(editor.StateMove)
	}
	return false
}

func (r *Recorder) selectOnly(f encoder.Format) bool {
	if !slices.Contains(r.opts.Formats, f) {
		return false
	}
	r.selected = []encoder.Format{f}
	return true
}

// Start begins a recording of the current rectangle. It is a no-op while
// capturing or writing.
func (r *Recorder) Start(ctx context.Context) bool {
	w, h := r.editor.Rect().PixelSize()
	if !r.session.Start(w, h) {
		return false
	}
	logger.Debugf(ctx, "recording started: %dx%d at %d fps, limit %d", w, h, r.session.FPS(), r.session.Limit())
	return true
}

// Stop ends the recording and hands the frames to the writers. A session
// without frames ends without writing anything.
func (r *Recorder) Stop(ctx context.Context) bool {
	if !r.session.Capturing() || r.session.Writing() {
		return false
	}
	r.submit(ctx, r.session.Stop())
	return true
}

func (r *Recorder) submit(ctx context.Context, job *capture.Job) {
	if job == nil {
		r.applyViewport()
		logger.Debugf(ctx, "recording stopped without frames")
		return
	}
	logger.Debugf(ctx, "recording stopped: %d frames", len(job.Frames))
	j := flushJob{job: job, formats: slices.Clone(r.selected)}
	r.pending = true
	if r.jobs == nil {
		r.finish(ctx, r.flush(ctx, j))
		return
	}
	r.jobs <- j
}

// Poll applies a completed background flush, if any. Call it once per
// update tick.
func (r *Recorder) Poll(ctx context.Context) {
	if !r.pending {
		return
	}
	select {
	case res := <-r.results:
		r.finish(ctx, res)
	default:
	}
}

// Wait blocks until the pending flush, if any, completes and returns its
// error.
func (r *Recorder) Wait(ctx context.Context) error {
	if !r.pending {
		return nil
	}
	select {
	case res := <-r.results:
		r.finish(ctx, res)
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish runs after every flush attempt, successful or not.
func (r *Recorder) finish(ctx context.Context, res FlushResult) {
	r.pending = false
	r.last = &res
	r.session.Clear()
	r.editor.Abort()
	r.applyViewport()
	if res.Err != nil {
		logger.Errorf(ctx, "writing recording failed: %v", res.Err)
	}
	for _, p := range res.Paths {
		logger.Infof(ctx, "wrote %s", p)
	}
}

// RequestScreenshot schedules a screenshot of the rectangle for the next
// Capture call. It is a no-op while capturing or writing.
func (r *Recorder) RequestScreenshot() bool {
	if r.session.Busy() {
		return false
	}
	r.shotPending = true
	return true
}

// Capture runs once per drawn frame, after the scene and before the
// overlay. It takes a pending screenshot and, while recording and active,
// appends a frame when one is due.
func (r *Recorder) Capture(ctx context.Context, src capture.Source, now time.Time) {
	if r.shotPending {
		r.shotPending = false
		res := r.screenshot(ctx, src)
		r.last = &res
		if res.Err != nil {
			logger.Errorf(ctx, "screenshot failed: %v", res.Err)
		} else {
			logger.Infof(ctx, "wrote %s", res.Paths[0])
		}
	}

	if !r.active || !r.session.Due(now) {
		return
	}
	at := r.editor.Rect().ImageRect(r.editor.Viewport().Height).Min
	job, err := r.session.CaptureFrame(ctx, src, at)
	if err != nil {
		logger.Warnf(ctx, "capture frame: %v", err)
		return
	}
	if job != nil {
		r.submit(ctx, job)
	}
}

func (r *Recorder) screenshot(ctx context.Context, src capture.Source) FlushResult {
	region := r.editor.Rect().ImageRect(r.editor.Viewport().Height)
	img, err := src.ReadRegion(ctx, region)
	if err != nil {
		return FlushResult{Err: fmt.Errorf("read region %v: %w", region, err)}
	}
	defer capture.RecycleFrame(img)

	enc := r.opts.StillEncoder
	if enc == nil {
		enc, err = encoder.StillForFormat(r.opts.StillFormat)
		if err != nil {
			return FlushResult{Err: err}
		}
	}
	if r.opts.StillSink != nil {
		if err := r.opts.StillSink.Write(ctx, enc, img); err != nil {
			return FlushResult{Err: fmt.Errorf("screenshot sink: %w", err)}
		}
		return FlushResult{Frames: 1}
	}
	if r.opts.Output == nil {
		return FlushResult{Err: ErrNoOutput}
	}
	p, err := r.opts.Output.Write(enc.Format().Ext(), func(w io.Writer) error {
		return enc.Encode(w, img)
	})
	if err != nil {
		return FlushResult{Err: err}
	}
	return FlushResult{Paths: []string{p}, Frames: 1}
}
