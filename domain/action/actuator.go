package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/soocke/pixel-fisher-go/domain/timing"
)

// ErrUnsupported is returned by platform operations that have no
// implementation on the running OS.
var ErrUnsupported = errors.New("action: unsupported on this platform")

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// Injector emits raw input events. Implementations are platform specific.
type Injector interface {
	KeyDown(key string) error
	KeyUp(key string) error
	CursorPos() (x, y int, err error)
	SetCursor(x, y int) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	TypeRune(r rune) error
}

const (
	defaultClickHold = 30 * time.Millisecond
	minMoveStep      = 10 * time.Millisecond
)

// Actuator composes injector events into timed gestures: held keys, eased
// cursor moves, clicks and typed text. All waits go through the Sleeper so a
// cancelled context interrupts them.
type Actuator struct {
	inj       Injector
	rnd       timing.Random
	sleeper   timing.Sleeper
	logger    *slog.Logger
	clickHold time.Duration
}

func NewActuator(inj Injector, rnd timing.Random, sleeper timing.Sleeper, logger *slog.Logger) *Actuator {
	if rnd == nil {
		rnd = timing.NewRandom()
	}
	if sleeper == nil {
		sleeper = timing.TimerSleeper{}
	}
	return &Actuator{inj: inj, rnd: rnd, sleeper: sleeper, logger: logger, clickHold: defaultClickHold}
}

// RandomDuration draws a uniform duration between min and max seconds.
func (a *Actuator) RandomDuration(min, max float64) time.Duration {
	return timing.Seconds(a.rnd.Uniform(min, max))
}

// HoldKey presses key, waits d and releases it. The release is sent even when
// the wait is interrupted.
func (a *Actuator) HoldKey(ctx context.Context, key string, d time.Duration) error {
	if err := a.inj.KeyDown(key); err != nil {
		return fmt.Errorf("action: key down %q: %w", key, err)
	}
	sleepErr := a.sleeper.Sleep(ctx, d)
	if err := a.inj.KeyUp(key); err != nil {
		return errors.Join(sleepErr, fmt.Errorf("action: key up %q: %w", key, err))
	}
	if a.logger != nil {
		a.logger.Debug("key held", "key", key, "duration", d)
	}
	return sleepErr
}

// MoveTo tweens the cursor from its current position to (x, y) over d using an
// ease-out quadratic curve. The final event always lands on the exact target.
func (a *Actuator) MoveTo(ctx context.Context, x, y int, d time.Duration) error {
	sx, sy, err := a.inj.CursorPos()
	if err != nil {
		return fmt.Errorf("action: cursor position: %w", err)
	}
	dx, dy := x-sx, y-sy
	steps := max(abs(dx), abs(dy))
	if d <= 0 || steps == 0 {
		return a.setCursor(x, y)
	}
	step := d / time.Duration(steps)
	if step < minMoveStep {
		steps = int(d / minMoveStep)
		if steps < 1 {
			steps = 1
		}
		step = d / time.Duration(steps)
	}
	for i := 1; i <= steps; i++ {
		if err := a.sleeper.Sleep(ctx, step); err != nil {
			return err
		}
		if i == steps {
			break
		}
		e := easeOutQuad(float64(i) / float64(steps))
		px := sx + int(math.Round(float64(dx)*e))
		py := sy + int(math.Round(float64(dy)*e))
		if err := a.setCursor(px, py); err != nil {
			return err
		}
	}
	return a.setCursor(x, y)
}

func (a *Actuator) setCursor(x, y int) error {
	if err := a.inj.SetCursor(x, y); err != nil {
		return fmt.Errorf("action: set cursor (%d,%d): %w", x, y, err)
	}
	return nil
}

// Click presses and releases b at the current cursor position.
func (a *Actuator) Click(ctx context.Context, b Button) error {
	if err := a.inj.ButtonDown(b); err != nil {
		return fmt.Errorf("action: %s button down: %w", b, err)
	}
	sleepErr := a.sleeper.Sleep(ctx, a.clickHold)
	if err := a.inj.ButtonUp(b); err != nil {
		return errors.Join(sleepErr, fmt.Errorf("action: %s button up: %w", b, err))
	}
	return sleepErr
}

// Write types text one rune at a time, pausing a uniform random interval in
// [minInterval, maxInterval) seconds after each rune.
func (a *Actuator) Write(ctx context.Context, text string, minInterval, maxInterval float64) error {
	for _, r := range text {
		if err := a.inj.TypeRune(r); err != nil {
			return fmt.Errorf("action: type %q: %w", r, err)
		}
		if err := a.sleeper.Sleep(ctx, a.RandomDuration(minInterval, maxInterval)); err != nil {
			return err
		}
	}
	return nil
}

func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
