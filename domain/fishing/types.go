package fishing

import (
	"context"
	"image"
	"time"

	"github.com/soocke/pixel-fisher-go/domain/action"
	"github.com/soocke/pixel-fisher-go/domain/audio"
	"github.com/soocke/pixel-fisher-go/domain/vision"
)

// FishingState enumerates the phases of the fishing cycle.
type FishingState int

const (
	StateIdle FishingState = iota
	StateWaitingFocus
	StateCasting
	StateAiming
	StateListening
	StateReacting
	StateCooldown
	StatePaused
)

func (s FishingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingFocus:
		return "focus"
	case StateCasting:
		return "casting"
	case StateAiming:
		return "aiming"
	case StateListening:
		return "listening"
	case StateReacting:
		return "reacting"
	case StateCooldown:
		return "cooldown"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// FishingStateListener is called on each state transition.
type FishingStateListener func(prev, next FishingState)

// Actuator performs the timed input gestures of a cycle.
type Actuator interface {
	HoldKey(ctx context.Context, key string, d time.Duration) error
	MoveTo(ctx context.Context, x, y int, d time.Duration) error
	Click(ctx context.Context, b action.Button) error
	Write(ctx context.Context, text string, minInterval, maxInterval float64) error
}

// Sampler grabs a screen region.
type Sampler interface {
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

// Locator finds the bait in a zone frame.
type Locator interface {
	Locate(frame image.Image) (vision.Result, error)
}

// CatchDetector runs one listening attempt.
type CatchDetector interface {
	Listen(ctx context.Context, attempt int) (audio.Decision, error)
}

// Windows answers window presence and focus queries.
type Windows interface {
	ListWindows() ([]string, error)
	ForegroundWindowTitle() (string, error)
}

// Range is an inclusive-exclusive span of seconds for uniform draws.
type Range struct{ Min, Max float64 }

// CycleResult summarises one cast cycle.
type CycleResult struct {
	Iteration int
	Bait      vision.Result
	// BaitFound is false when the locator rejected the frame; listening is
	// skipped in that case.
	BaitFound bool
	Attempts  int
	Caught    bool
	Wait      time.Duration
}

// Interface slices for consumers.
type FishingStateSource interface{ Current() FishingState }
type FishingPauseControl interface {
	Pause()
	Resume()
	TogglePause() bool
	Paused() bool
}

// FishingLoopContract aggregate for DI.
type FishingLoopContract interface {
	FishingStateSource
	FishingPauseControl
	Run(ctx context.Context) error
	Cycle(ctx context.Context) (CycleResult, error)
	AddListener(FishingStateListener)
	Stats() StatsSnapshot
}
