// Package audio records the desktop loopback and decides whether a listening
// window contains the catch sound.
package audio

import "math"

// Window is one block of recorded audio, one slice per channel.
type Window struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (w Window) Frames() int {
	if len(w.Channels) == 0 {
		return 0
	}
	return len(w.Channels[0])
}

// MeanAbs returns the mean absolute amplitude of samples, 0 for no samples.
func MeanAbs(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += math.Abs(float64(s))
	}
	return sum / float64(len(samples))
}
