// Package vision finds the fishing bait in a captured zone. The bait is the
// brightest blob after isolating one colour channel and smoothing the frame
// with a box filter.
package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/soocke/pixel-fisher-go/domain/artifact"
)

// ErrBaitNotFound is returned when the brightest location is weaker than the
// configured minimum peak.
var ErrBaitNotFound = errors.New("vision: bait not found")

// Artifact names written for each located frame.
const (
	StatusImage        = "status.png"
	StatusBlurredImage = "status_blurred.png"
	StatusCursorImage  = "status_cursor.png"
)

// Result is a bait location relative to the frame origin together with the
// blurred intensity (0..255) at that location.
type Result struct {
	Point image.Point
	Peak  float64
}

// Options configures a Locator.
type Options struct {
	Channel Channel
	Kernel  int
	// MinPeak rejects results whose peak is below it. Zero always accepts.
	MinPeak float64
}

// Locator implements bait localisation on single frames.
type Locator struct {
	opts   Options
	sink   artifact.Sink
	logger *slog.Logger
}

func NewLocator(opts Options, sink artifact.Sink, logger *slog.Logger) *Locator {
	if opts.Kernel <= 0 {
		opts.Kernel = 20
	}
	if sink == nil {
		sink = artifact.Discard{}
	}
	return &Locator{opts: opts, sink: sink, logger: logger}
}

// Locate returns the brightest smoothed location of frame. It writes the raw
// frame and the normalised blurred frame, both marked at the result, to the
// artifact sink. When MinPeak is set and not reached the result is returned
// along with ErrBaitNotFound.
func (l *Locator) Locate(frame image.Image) (Result, error) {
	b := frame.Bounds()
	if b.Empty() {
		return Result{}, fmt.Errorf("vision: empty frame %v", b)
	}
	isolated := IsolateChannel(frame, l.opts.Channel)
	blurred, sums := BoxBlur(Intensity(isolated), l.opts.Kernel)
	idx := ArgMax(sums)
	area := float64(l.opts.Kernel * l.opts.Kernel)
	res := Result{
		Point: image.Pt(idx%blurred.W, idx/blurred.W),
		Peak:  float64(sums[idx]) / area,
	}

	raw := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(raw, raw.Rect, frame, b.Min, draw.Src)
	DrawCircle(raw, res.Point, markerRadius, markerThickness, color.RGBA{R: 255, A: 255})
	display := Normalize(blurred)
	DrawCircle(display, res.Point, markerRadius, markerThickness, color.Gray{Y: 255})
	if err := l.sink.SaveImage(StatusImage, raw); err != nil {
		return res, err
	}
	if err := l.sink.SaveImage(StatusBlurredImage, display); err != nil {
		return res, err
	}

	if l.logger != nil {
		l.logger.Debug("bait located", "x", res.Point.X, "y", res.Point.Y, "peak", res.Peak)
	}
	if l.opts.MinPeak > 0 && res.Peak < l.opts.MinPeak {
		return res, fmt.Errorf("%w: peak %.1f below %.1f", ErrBaitNotFound, res.Peak, l.opts.MinPeak)
	}
	return res, nil
}
