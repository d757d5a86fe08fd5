// Package timing provides the randomized wait draws and cancellable sleeps
// shared by the actuator and the fishing loop. Both are interfaces so tests can
// substitute deterministic values and record the requested waits.
package timing

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Random draws wait lengths in seconds.
type Random interface {
	// Uniform returns a value in [min, max).
	Uniform(min, max float64) float64
	// Exponential returns an exponentially distributed value with the given mean
	// (scale). The rate of the distribution is 1/mean.
	Exponential(mean float64) float64
}

// Sleeper suspends the caller for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// MathRandom implements Random on math/rand/v2. It is safe for concurrent use.
type MathRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded from the runtime's entropy source.
func NewRandom() *MathRandom {
	return &MathRandom{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededRandom returns a reproducible Random.
func NewSeededRandom(seed uint64) *MathRandom {
	return &MathRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *MathRandom) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Float64()*(max-min)
}

func (r *MathRandom) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.ExpFloat64() * mean
}

// TimerSleeper implements Sleeper with a timer so that cancellation of ctx ends
// the wait early.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Seconds converts a float number of seconds into a time.Duration rounded to
// the nearest nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

var (
	_ Random  = (*MathRandom)(nil)
	_ Sleeper = TimerSleeper{}
)
