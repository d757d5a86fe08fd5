package capture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"
)

// ErrCaptureUnavailable reports that the screen could not be read.
var ErrCaptureUnavailable = errors.New("capture: screen capture unavailable")

// Sampler grabs a rectangular region of the screen.
type Sampler interface {
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

// ScreenSampler captures the primary display through the screenshot library.
type ScreenSampler struct {
	logger     *slog.Logger
	grabs      atomic.Uint64
	failures   atomic.Uint64
	grabNanos  atomic.Uint64
	lastGrabAt atomic.Int64
}

func NewScreenSampler(logger *slog.Logger) *ScreenSampler {
	return &ScreenSampler{logger: logger}
}

// Grab returns the pixels of rect. The returned image is rebased so that its
// bounds start at (0,0).
func (s *ScreenSampler) Grab(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		s.failures.Add(1)
		return nil, fmt.Errorf("%w: empty region %v", ErrCaptureUnavailable, rect)
	}
	start := time.Now()
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("%w: region %v: %v", ErrCaptureUnavailable, rect, err)
	}
	if img == nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("%w: region %v: no image", ErrCaptureUnavailable, rect)
	}
	if img.Rect.Min != (image.Point{}) {
		img.Rect = img.Rect.Sub(img.Rect.Min)
	}
	s.grabNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.grabs.Add(1)
	s.lastGrabAt.Store(time.Now().UnixNano())
	if s.logger != nil {
		s.logger.Debug("capture.grab", "rect", rect.String(), "elapsed", time.Since(start))
	}
	return img, nil
}

// Stats returns counters accumulated since construction.
func (s *ScreenSampler) Stats() SamplerStats {
	grabs := s.grabs.Load()
	var avg time.Duration
	if grabs > 0 {
		avg = time.Duration(s.grabNanos.Load() / grabs)
	}
	var last time.Time
	if ns := s.lastGrabAt.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return SamplerStats{Grabs: grabs, Failures: s.failures.Load(), AvgGrab: avg, LastGrabAt: last}
}

// ScreenBounds returns the bounds of the primary display.
func ScreenBounds() (image.Rectangle, error) {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: screen bounds: %v", ErrCaptureUnavailable, err)
	}
	return r, nil
}

var _ Sampler = (*ScreenSampler)(nil)
