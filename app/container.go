package app

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/soocke/pixel-fisher-go/config"
	"github.com/soocke/pixel-fisher-go/domain/action"
	"github.com/soocke/pixel-fisher-go/domain/artifact"
	"github.com/soocke/pixel-fisher-go/domain/audio"
	"github.com/soocke/pixel-fisher-go/domain/capture"
	"github.com/soocke/pixel-fisher-go/domain/fishing"
	"github.com/soocke/pixel-fisher-go/domain/timing"
	"github.com/soocke/pixel-fisher-go/domain/vision"
)

// AppContainer assembles the adapters and the fishing loop.
type AppContainer struct {
	Config  *config.Config
	Logger  *slog.Logger
	Zone    image.Rectangle
	Sink    *artifact.DirSink
	Sampler *capture.ScreenSampler
	Fisher  *fishing.Fisher
	Session *fishing.Session
	Windows fishing.Windows
	Hotkeys Hotkeys

	closers []io.Closer
}

// BuildContainer constructs all components against the real desktop. It
// opens the audio device, so a missing loopback input fails here.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}

	screen := image.Rect(0, 0, cfg.ScreenWidth, cfg.ScreenHeight)
	if screen.Empty() {
		r, err := capture.ScreenBounds()
		if err != nil {
			return nil, err
		}
		screen = r
	}
	c.Zone = capture.FishingZone(screen, cfg.ZoneWidth, cfg.ZoneHeight, cfg.ZoneOffsetY)
	logger.Info("fishing zone", "screen", screen.String(), "zone", c.Zone.String())

	channel, err := vision.ParseChannel(cfg.Channel)
	if err != nil {
		return nil, err
	}
	opts, err := fishing.OptionsFromConfig(cfg, c.Zone)
	if err != nil {
		return nil, err
	}
	esc, err := cfg.Key(config.ActionEsc)
	if err != nil {
		return nil, err
	}
	enter, err := cfg.Key(config.ActionEnter)
	if err != nil {
		return nil, err
	}

	rec, err := audio.NewPortAudioRecorder(audio.RecorderOptions{
		SampleRate:      cfg.SampleRate,
		Device:          cfg.AudioDevice,
		ExcludedDevices: cfg.ExcludedAudioDevices,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("app: audio: %w", err)
	}
	c.closers = append(c.closers, rec)

	rnd := timing.NewRandom()
	sleeper := timing.TimerSleeper{}
	c.Sink = artifact.NewDirSink(cfg.OutputFolder)
	c.Sampler = capture.NewScreenSampler(logger)
	act := action.NewActuator(action.NewInjector(), rnd, sleeper, logger)
	c.Windows = action.DesktopWindows{}
	c.Hotkeys = GoHookHotkeys{}

	c.Fisher = fishing.NewFisher(opts, fishing.Deps{
		Actuator: act,
		Sampler:  c.Sampler,
		Locator:  vision.NewLocator(vision.Options{Channel: channel, Kernel: cfg.BlurKernel, MinPeak: cfg.MinPeak}, c.Sink, logger),
		Detector: audio.NewDetector(rec, audio.DetectorOptions{
			Frames:        cfg.ListenFrames(),
			ListenSeconds: cfg.ListenSeconds,
			Threshold:     cfg.SoundThreshold,
		}, c.Sink, logger),
		Sink:    c.Sink,
		Random:  rnd,
		Sleeper: sleeper,
		Logger:  logger,
	})
	c.Session = fishing.NewSession(act, fishing.SessionKeys{Esc: esc, Enter: enter}, logger)
	return c, nil
}

// Close releases devices opened by BuildContainer.
func (c *AppContainer) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}
