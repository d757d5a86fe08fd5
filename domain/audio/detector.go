package audio

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/soocke/pixel-fisher-go/domain/artifact"
)

// PlotLimit is the fixed vertical range of waveform plots.
const PlotLimit = 0.12

// Artifact written on every listen with the most recent plot.
const LatestPlot = "audio_signal.png"

// Decision is the outcome of one listening attempt.
type Decision struct {
	Attempt int
	Mean    float64
	Caught  bool
}

// DetectorOptions configures a Detector.
type DetectorOptions struct {
	Frames        int
	ListenSeconds float64
	Threshold     float64
}

// Detector records one window per attempt and compares its loudness with a
// threshold.
type Detector struct {
	rec    Recorder
	opts   DetectorOptions
	sink   artifact.Sink
	logger *slog.Logger
}

func NewDetector(rec Recorder, opts DetectorOptions, sink artifact.Sink, logger *slog.Logger) *Detector {
	if sink == nil {
		sink = artifact.Discard{}
	}
	return &Detector{rec: rec, opts: opts, sink: sink, logger: logger}
}

// Caught reports whether mean strictly exceeds threshold.
func Caught(mean, threshold float64) bool { return mean > threshold }

// Listen records a window, decides on channel 0 and stores the plot and WAV
// artifacts for the attempt.
func (d *Detector) Listen(ctx context.Context, attempt int) (Decision, error) {
	win, err := d.rec.Record(ctx, d.opts.Frames)
	if err != nil {
		return Decision{Attempt: attempt}, err
	}
	var ch0 []float32
	if len(win.Channels) > 0 {
		ch0 = win.Channels[0]
	}
	mean := MeanAbs(ch0)
	dec := Decision{Attempt: attempt, Mean: mean, Caught: Caught(mean, d.opts.Threshold)}
	if d.logger != nil {
		d.logger.Info("listen", "attempt", attempt, "mean", mean, "threshold", d.opts.Threshold, "catch", dec.Caught)
	}

	title := fmt.Sprintf("Last %s second(s) of audio", strconv.FormatFloat(d.opts.ListenSeconds, 'g', -1, 64))
	plot := PlotWaveform(ch0, PlotLimit, title)
	if err := d.sink.SaveImage(fmt.Sprintf("audio_signal_%d.png", attempt), plot); err != nil {
		return dec, err
	}
	if err := d.sink.SaveImage(LatestPlot, plot); err != nil {
		return dec, err
	}
	if err := d.sink.SaveFile(fmt.Sprintf("sound_%d.wav", attempt), EncodeWAV(ch0, win.SampleRate)); err != nil {
		return dec, err
	}
	return dec, nil
}
