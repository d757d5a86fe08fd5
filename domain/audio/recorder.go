package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// ErrDeviceUnavailable reports that no usable loopback input exists.
var ErrDeviceUnavailable = errors.New("audio: loopback device unavailable")

// Recorder captures a fixed number of frames from an input device.
type Recorder interface {
	Record(ctx context.Context, frames int) (Window, error)
}

// loopbackKeywords identify devices that carry the desktop output mix.
var loopbackKeywords = []string{"loopback", "monitor", "stereo mix", "what u hear", "blackhole", "vb-cable", "soundflower"}

// DeviceCandidate is the part of a device description used for selection.
type DeviceCandidate struct {
	Name             string
	MaxInputChannels int
}

// SelectDevice picks the input device to record from. A non-empty want
// matches by case-insensitive substring; otherwise the first device that
// looks like a loopback wins. Devices matching any excluded substring or
// without input channels are skipped.
func SelectDevice(devs []DeviceCandidate, want string, excluded []string) (int, error) {
	usable := func(d DeviceCandidate) bool {
		if d.MaxInputChannels < 1 {
			return false
		}
		for _, ex := range excluded {
			if ex != "" && containsFold(d.Name, ex) {
				return false
			}
		}
		return true
	}
	want = strings.TrimSpace(want)
	for i, d := range devs {
		if !usable(d) {
			continue
		}
		if want != "" {
			if containsFold(d.Name, want) {
				return i, nil
			}
			continue
		}
		for _, kw := range loopbackKeywords {
			if containsFold(d.Name, kw) {
				return i, nil
			}
		}
	}
	if want != "" {
		return -1, fmt.Errorf("%w: no input device matches %q", ErrDeviceUnavailable, want)
	}
	return -1, fmt.Errorf("%w: no loopback input device found", ErrDeviceUnavailable)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// RecorderOptions configures a PortAudioRecorder.
type RecorderOptions struct {
	SampleRate      int
	Device          string
	ExcludedDevices []string
	FramesPerBuffer int
}

// PortAudioRecorder records from a loopback device through PortAudio. Each
// Record call opens a blocking stream, reads the requested frames and closes
// it again.
type PortAudioRecorder struct {
	opts     RecorderOptions
	logger   *slog.Logger
	device   *portaudio.DeviceInfo
	channels int

	mu     sync.Mutex
	closed bool
}

// NewPortAudioRecorder initializes PortAudio and resolves the input device.
// Close must be called to release the library.
func NewPortAudioRecorder(opts RecorderOptions, logger *slog.Logger) (*PortAudioRecorder, error) {
	if opts.FramesPerBuffer <= 0 {
		opts.FramesPerBuffer = 1024
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize: %v", ErrDeviceUnavailable, err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: list devices: %v", ErrDeviceUnavailable, err)
	}
	cands := make([]DeviceCandidate, len(devices))
	for i, d := range devices {
		cands[i] = DeviceCandidate{Name: d.Name, MaxInputChannels: d.MaxInputChannels}
	}
	idx, err := SelectDevice(cands, opts.Device, opts.ExcludedDevices)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}
	dev := devices[idx]
	r := &PortAudioRecorder{opts: opts, logger: logger, device: dev, channels: min(2, dev.MaxInputChannels)}
	if logger != nil {
		logger.Info("audio device selected", "device", dev.Name, "channels", r.channels, "sample_rate", opts.SampleRate)
	}
	return r, nil
}

// Record blocks until frames samples per channel have been read or ctx ends.
func (r *PortAudioRecorder) Record(ctx context.Context, frames int) (Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Window{}, fmt.Errorf("%w: recorder closed", ErrDeviceUnavailable)
	}
	buf := make([][]float32, r.channels)
	for c := range buf {
		buf[c] = make([]float32, r.opts.FramesPerBuffer)
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   r.device,
			Channels: r.channels,
			Latency:  r.device.DefaultLowInputLatency,
		},
		SampleRate:      float64(r.opts.SampleRate),
		FramesPerBuffer: r.opts.FramesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return Window{}, fmt.Errorf("%w: open %q: %v", ErrDeviceUnavailable, r.device.Name, err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return Window{}, fmt.Errorf("%w: start %q: %v", ErrDeviceUnavailable, r.device.Name, err)
	}
	defer stream.Stop()

	win := Window{SampleRate: r.opts.SampleRate, Channels: make([][]float32, r.channels)}
	for c := range win.Channels {
		win.Channels[c] = make([]float32, 0, frames)
	}
	for win.Frames() < frames {
		if err := ctx.Err(); err != nil {
			return Window{}, err
		}
		if err := stream.Read(); err != nil {
			return Window{}, fmt.Errorf("%w: read %q: %v", ErrDeviceUnavailable, r.device.Name, err)
		}
		n := min(frames-win.Frames(), r.opts.FramesPerBuffer)
		for c := range buf {
			win.Channels[c] = append(win.Channels[c], buf[c][:n]...)
		}
	}
	return win, nil
}

// Close terminates PortAudio. Further Record calls fail.
func (r *PortAudioRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return portaudio.Terminate()
}

var _ Recorder = (*PortAudioRecorder)(nil)
