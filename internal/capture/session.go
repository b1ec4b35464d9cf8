package capture

import (
	"context"
	"fmt"
	"image"
	"time"
)

// DefaultFPS is the playback rate used when none is configured.
const DefaultFPS = 16

// SessionOptions configures a Session.
type SessionOptions struct {
	// Limit stops the session automatically once that many frames have been
	// captured. Zero means no limit.
	Limit int
	// FPS is the playback rate handed to the encoders and the pace at which
	// Due lets frames through.
	FPS int
	// Now stamps captured frames; nil uses time.Now.
	Now func() time.Time
}

// Job is the output of a stopped session, ready for encoding.
type Job struct {
	Frames []Frame
	FPS    int
	Width  int
	Height int
}

// Images returns the frame images in capture order.
func (j *Job) Images() []*image.RGBA {
	images := make([]*image.RGBA, len(j.Frames))
	for i, f := range j.Frames {
		images[i] = f.Image
	}
	return images
}

// Release recycles the frame buffers. The job must not be used afterwards.
func (j *Job) Release() {
	for _, f := range j.Frames {
		RecycleFrame(f.Image)
	}
	j.Frames = nil
}

// Session buffers the frames of one recording. Start freezes the frame size,
// CaptureFrame appends, Stop hands the frames over as a Job and marks the
// session as writing until Clear.
//
// A Session is owned by a single goroutine.
type Session struct {
	opts SessionOptions
	now  func() time.Time

	capturing bool
	writing   bool
	width     int
	height    int
	frames    []Frame
	last      time.Time
}

// NewSession creates an idle session.
func NewSession(opts SessionOptions) *Session {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{opts: opts, now: now}
}

func (s *Session) Capturing() bool { return s.capturing }
func (s *Session) Writing() bool   { return s.writing }
func (s *Session) Len() int        { return len(s.frames) }
func (s *Session) Limit() int      { return s.opts.Limit }
func (s *Session) FPS() int        { return s.opts.FPS }

// Busy reports whether a recording is in progress or being flushed.
func (s *Session) Busy() bool { return s.capturing || s.writing }

// Size returns the frozen frame size of the current session.
func (s *Session) Size() (width, height int) { return s.width, s.height }

// SetLimit changes the frame limit for the next session.
func (s *Session) SetLimit(limit int) {
	s.opts.Limit = max(0, limit)
}

// SetFPS changes the playback rate for the next session.
func (s *Session) SetFPS(fps int) {
	if fps > 0 {
		s.opts.FPS = fps
	}
}

// Start begins a new recording of width x height frames. It is a no-op while
// capturing or writing, or when the size is empty.
func (s *Session) Start(width, height int) bool {
	if s.capturing || s.writing || width <= 0 || height <= 0 {
		return false
	}
	s.capturing = true
	s.width = width
	s.height = height
	s.frames = s.frames[:0]
	s.last = time.Time{}
	return true
}

// Due reports whether enough time has passed since the previous frame to
// capture another one at the session's rate.
func (s *Session) Due(now time.Time) bool {
	if !s.capturing {
		return false
	}
	if s.last.IsZero() {
		return true
	}
	return now.Sub(s.last) >= time.Second/time.Duration(s.opts.FPS)
}

// CaptureFrame reads the frozen-size region whose top-left pixel is at from
// src and appends it. When the append reaches the frame limit the session
// stops and the resulting job is returned.
func (s *Session) CaptureFrame(ctx context.Context, src Source, at image.Point) (*Job, error) {
	if !s.capturing {
		return nil, nil
	}
	if s.opts.Limit > 0 && len(s.frames) >= s.opts.Limit {
		return s.Stop(), nil
	}

	region := image.Rectangle{Min: at, Max: at.Add(image.Pt(s.width, s.height))}
	img, err := src.ReadRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("read region %v: %w", region, err)
	}
	if img.Bounds().Dx() != s.width || img.Bounds().Dy() != s.height {
		RecycleFrame(img)
		return nil, fmt.Errorf("source returned %dx%d, expected %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), s.width, s.height)
	}

	now := s.now()
	s.frames = append(s.frames, Frame{Image: img, Timestamp: now})
	s.last = now

	if s.opts.Limit > 0 && len(s.frames) >= s.opts.Limit {
		return s.Stop(), nil
	}
	return nil, nil
}

// Stop ends the recording. It returns nil without entering the writing state
// when the session was not capturing, is already writing, or captured no
// frames. Otherwise the frames move into the returned job and the session is
// writing until Clear.
func (s *Session) Stop() *Job {
	if s.writing || !s.capturing {
		return nil
	}
	s.capturing = false
	if len(s.frames) == 0 {
		return nil
	}
	s.writing = true
	job := &Job{
		Frames: s.frames,
		FPS:    s.opts.FPS,
		Width:  s.width,
		Height: s.height,
	}
	s.frames = nil
	return job
}

// Clear leaves the writing state and drops any buffered frames.
func (s *Session) Clear() {
	for _, f := range s.frames {
		RecycleFrame(f.Image)
	}
	s.frames = nil
	s.writing = false
	s.capturing = false
	s.last = time.Time{}
}
