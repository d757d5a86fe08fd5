package fishing

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pixel-fisher-go/config"
	"github.com/soocke/pixel-fisher-go/domain/action"
	"github.com/soocke/pixel-fisher-go/domain/artifact"
	"github.com/soocke/pixel-fisher-go/domain/timing"
	"github.com/soocke/pixel-fisher-go/domain/vision"
)

// Options holds the cycle parameters.
type Options struct {
	FishKey        string
	Zone           image.Rectangle
	CastHold       Range
	Settle         Range
	Move           Range
	ListenAttempts int
	ListenInterval time.Duration
	LootDelay      time.Duration
	// WaitParameter is the mean in seconds of the exponential cooldown.
	WaitParameter float64
}

// OptionsFromConfig derives cycle options from cfg for the given zone.
func OptionsFromConfig(cfg *config.Config, zone image.Rectangle) (Options, error) {
	key, err := cfg.Key(config.ActionFish)
	if err != nil {
		return Options{}, err
	}
	return Options{
		FishKey:        key,
		Zone:           zone,
		CastHold:       Range{cfg.CastHoldMin, cfg.CastHoldMax},
		Settle:         Range{cfg.SettleMin, cfg.SettleMax},
		Move:           Range{cfg.MoveMin, cfg.MoveMax},
		ListenAttempts: cfg.ListenAttempts,
		ListenInterval: cfg.ListenInterval(),
		LootDelay:      cfg.LootDelay(),
		WaitParameter:  cfg.WaitParameter,
	}, nil
}

// Deps are the collaborators of a Fisher. Sink, Random, Sleeper and Now
// default to artifact.Discard, a runtime-seeded random source, a timer
// sleeper and time.Now.
type Deps struct {
	Actuator Actuator
	Sampler  Sampler
	Locator  Locator
	Detector CatchDetector
	Sink     artifact.Sink
	Random   timing.Random
	Sleeper  timing.Sleeper
	Logger   *slog.Logger
	Now      func() time.Time
}

// Fisher runs the cast, aim, listen and react cycle until its context ends.
type Fisher struct {
	opts Options
	d    Deps

	mu        sync.Mutex
	state     FishingState
	listeners []FishingStateListener
	iteration int
	paused    bool
	resumeCh  chan struct{}

	stats *SessionStats
}

func NewFisher(opts Options, d Deps) *Fisher {
	if d.Sink == nil {
		d.Sink = artifact.Discard{}
	}
	if d.Random == nil {
		d.Random = timing.NewRandom()
	}
	if d.Sleeper == nil {
		d.Sleeper = timing.TimerSleeper{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Fisher{opts: opts, d: d, state: StateIdle, stats: NewSessionStats()}
}

func (f *Fisher) AddListener(l FishingStateListener) {
	f.mu.Lock()
	f.listeners = append(f.listeners, l)
	f.mu.Unlock()
}

func (f *Fisher) Current() FishingState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Iteration is the number of cycles started so far.
func (f *Fisher) Iteration() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.iteration
}

func (f *Fisher) Stats() StatsSnapshot { return f.stats.Snapshot(f.d.Now()) }

// Pause makes Run block before the next cycle until Resume is called.
func (f *Fisher) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.paused {
		f.paused = true
		f.resumeCh = make(chan struct{})
	}
}

func (f *Fisher) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paused {
		f.paused = false
		close(f.resumeCh)
	}
}

// TogglePause flips the pause flag and reports the new value.
func (f *Fisher) TogglePause() bool {
	if f.Paused() {
		f.Resume()
		return false
	}
	f.Pause()
	return true
}

func (f *Fisher) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *Fisher) transition(next FishingState) {
	f.mu.Lock()
	prev := f.state
	if prev == next {
		f.mu.Unlock()
		return
	}
	f.state = next
	ls := append([]FishingStateListener(nil), f.listeners...)
	f.mu.Unlock()
	if f.d.Logger != nil {
		f.d.Logger.Debug("fishing state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range ls {
		l(prev, next)
	}
}

// AwaitFocus blocks in StateWaitingFocus until the target window is focused.
func (f *Fisher) AwaitFocus(ctx context.Context, w Windows, title string, poll time.Duration) error {
	f.transition(StateWaitingFocus)
	err := WaitForFocus(ctx, w, title, poll, f.d.Sleeper, f.d.Logger)
	f.transition(StateIdle)
	return err
}

// Run repeats Cycle until ctx is cancelled or a cycle fails. Cancellation is
// a clean stop and returns nil.
func (f *Fisher) Run(ctx context.Context) error {
	f.stats.OnTick(true, f.d.Now())
	defer func() {
		f.stats.OnTick(false, f.d.Now())
		f.transition(StateIdle)
	}()
	for {
		if err := f.waitWhilePaused(ctx); err != nil {
			return nil
		}
		if _, err := f.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (f *Fisher) waitWhilePaused(ctx context.Context) error {
	f.mu.Lock()
	paused, ch := f.paused, f.resumeCh
	f.mu.Unlock()
	if !paused {
		return ctx.Err()
	}
	f.transition(StatePaused)
	f.stats.OnTick(false, f.d.Now())
	if f.d.Logger != nil {
		f.d.Logger.Info("fishing paused")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
	}
	f.stats.OnTick(true, f.d.Now())
	if f.d.Logger != nil {
		f.d.Logger.Info("fishing resumed")
	}
	return nil
}

// Cycle performs one cast: cast, aim at the bait, listen for up to
// ListenAttempts windows and react to the first catch. The iteration counter
// advances once per call whatever the outcome.
func (f *Fisher) Cycle(ctx context.Context) (CycleResult, error) {
	f.mu.Lock()
	res := CycleResult{Iteration: f.iteration}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.iteration++
		f.mu.Unlock()
	}()
	if f.d.Logger != nil {
		f.d.Logger.Info("fishing iteration", "iteration", res.Iteration)
	}

	if err := f.cast(ctx); err != nil {
		return res, err
	}

	bait, err := f.aim(ctx)
	switch {
	case errors.Is(err, vision.ErrBaitNotFound):
		if f.d.Logger != nil {
			f.d.Logger.Warn("bait not found, recasting", "iteration", res.Iteration, "peak", bait.Peak)
		}
		res.Bait = bait
		f.record(res)
		return res, nil
	case err != nil:
		return res, err
	}
	res.Bait, res.BaitFound = bait, true

	f.transition(StateListening)
	for attempt := 0; attempt < f.opts.ListenAttempts; attempt++ {
		dec, err := f.d.Detector.Listen(ctx, attempt)
		res.Attempts++
		if err != nil {
			return res, fmt.Errorf("fishing: listen attempt %d: %w", attempt, err)
		}
		if dec.Caught {
			res.Caught = true
			res.Wait, err = f.react(ctx)
			if err != nil {
				return res, err
			}
			break
		}
		if err := f.d.Sleeper.Sleep(ctx, f.opts.ListenInterval); err != nil {
			return res, err
		}
	}
	f.record(res)
	return res, nil
}

func (f *Fisher) record(res CycleResult) {
	f.stats.Record(res)
	if f.d.Logger != nil {
		s := f.Stats()
		f.d.Logger.Info("cycle complete",
			"iteration", res.Iteration,
			"catch", res.Caught,
			"attempts", res.Attempts,
			"casts", s.Casts,
			"catches", s.Catches,
			"misses", s.Misses,
			"not_found", s.NotFound,
			"active", s.Active.Round(time.Second),
		)
	}
}

func (f *Fisher) cast(ctx context.Context) error {
	f.transition(StateCasting)
	hold := f.draw(f.opts.CastHold)
	if err := f.d.Actuator.HoldKey(ctx, f.opts.FishKey, hold); err != nil {
		return fmt.Errorf("fishing: cast: %w", err)
	}
	return f.d.Sleeper.Sleep(ctx, f.draw(f.opts.Settle))
}

// aim locates the bait in the fishing zone and moves the cursor onto it. The
// located result is returned together with vision.ErrBaitNotFound when the
// locator rejects the frame; the cursor is not moved in that case.
func (f *Fisher) aim(ctx context.Context) (vision.Result, error) {
	f.transition(StateAiming)
	frame, err := f.d.Sampler.Grab(f.opts.Zone)
	if err != nil {
		return vision.Result{}, fmt.Errorf("fishing: grab zone: %w", err)
	}
	bait, err := f.d.Locator.Locate(frame)
	if err != nil {
		return bait, fmt.Errorf("fishing: locate bait: %w", err)
	}
	x, y := f.opts.Zone.Min.X+bait.Point.X, f.opts.Zone.Min.Y+bait.Point.Y
	if f.d.Logger != nil {
		f.d.Logger.Info("moving cursor to bait", "x", x, "y", y, "peak", bait.Peak)
	}
	if err := f.d.Actuator.MoveTo(ctx, x, y, f.draw(f.opts.Move)); err != nil {
		return bait, fmt.Errorf("fishing: move cursor: %w", err)
	}
	after, err := f.d.Sampler.Grab(f.opts.Zone)
	if err != nil {
		return bait, fmt.Errorf("fishing: grab zone: %w", err)
	}
	if err := f.d.Sink.SaveImage(vision.StatusCursorImage, after); err != nil {
		return bait, err
	}
	return bait, nil
}

// react clicks the bait, waits for the loot and then cools down for an
// exponentially distributed time, which it returns.
func (f *Fisher) react(ctx context.Context) (time.Duration, error) {
	f.transition(StateReacting)
	if f.d.Logger != nil {
		f.d.Logger.Info("catch detected, reeling in")
	}
	if err := f.d.Actuator.Click(ctx, action.ButtonRight); err != nil {
		return 0, fmt.Errorf("fishing: click: %w", err)
	}
	if err := f.d.Sleeper.Sleep(ctx, f.opts.LootDelay); err != nil {
		return 0, err
	}
	f.transition(StateCooldown)
	wait := timing.Seconds(f.d.Random.Exponential(f.opts.WaitParameter))
	if f.d.Logger != nil {
		f.d.Logger.Info("waiting", "seconds", wait.Seconds())
	}
	return wait, f.d.Sleeper.Sleep(ctx, wait)
}

func (f *Fisher) draw(r Range) time.Duration {
	return timing.Seconds(f.d.Random.Uniform(r.Min, r.Max))
}

var _ FishingLoopContract = (*Fisher)(nil)
