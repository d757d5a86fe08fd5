package fishing

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/soocke/pixel-fisher-go/domain/action"
	"github.com/soocke/pixel-fisher-go/domain/artifact"
	"github.com/soocke/pixel-fisher-go/domain/audio"
	"github.com/soocke/pixel-fisher-go/domain/vision"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// eventLog collects the side effects of all fakes in call order.
type eventLog struct {
	mu  sync.Mutex
	seq []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	l.seq = append(l.seq, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.seq...)
}

func (l *eventLog) count(prefix string) int {
	n := 0
	for _, e := range l.all() {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

type fakeActuator struct{ log *eventLog }

func (a fakeActuator) HoldKey(ctx context.Context, key string, d time.Duration) error {
	a.log.add("hold %s %v", key, d)
	return ctx.Err()
}

func (a fakeActuator) MoveTo(ctx context.Context, x, y int, d time.Duration) error {
	a.log.add("move %d,%d %v", x, y, d)
	return ctx.Err()
}

func (a fakeActuator) Click(ctx context.Context, b action.Button) error {
	a.log.add("click %s", b)
	return ctx.Err()
}

func (a fakeActuator) Write(ctx context.Context, text string, lo, hi float64) error {
	a.log.add("write %s", text)
	return ctx.Err()
}

type fakeSampler struct{ log *eventLog }

func (s fakeSampler) Grab(r image.Rectangle) (*image.RGBA, error) {
	s.log.add("grab")
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
}

type fakeLocator struct {
	res vision.Result
	err error
}

func (l fakeLocator) Locate(image.Image) (vision.Result, error) { return l.res, l.err }

// scriptedDetector reports a catch on the attempts listed in catchOn.
type scriptedDetector struct {
	log     *eventLog
	catchOn map[int]bool
	err     error
}

func (d scriptedDetector) Listen(ctx context.Context, attempt int) (audio.Decision, error) {
	d.log.add("listen %d", attempt)
	if d.err != nil {
		return audio.Decision{Attempt: attempt}, d.err
	}
	return audio.Decision{Attempt: attempt, Caught: d.catchOn[attempt]}, nil
}

type fixedRandom struct{}

func (fixedRandom) Uniform(min, max float64) float64 { return (min + max) / 2 }
func (fixedRandom) Exponential(mean float64) float64 { return mean }

type logSleeper struct{ log *eventLog }

func (s logSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.log.add("sleep %v", d)
	return ctx.Err()
}

func testOptions() Options {
	return Options{
		FishKey:        "1",
		Zone:           image.Rect(835, 315, 1085, 565),
		CastHold:       Range{0.9, 1.1},
		Settle:         Range{0.3, 0.5},
		Move:           Range{0.2, 0.7},
		ListenAttempts: 8,
		ListenInterval: 800 * time.Millisecond,
		LootDelay:      500 * time.Millisecond,
		WaitParameter:  2.0,
	}
}

func newTestFisher(log *eventLog, loc Locator, det CatchDetector, sink artifact.Sink) *Fisher {
	return NewFisher(testOptions(), Deps{
		Actuator: fakeActuator{log},
		Sampler:  fakeSampler{log},
		Locator:  loc,
		Detector: det,
		Sink:     sink,
		Random:   fixedRandom{},
		Sleeper:  logSleeper{log},
		Logger:   discardLogger,
	})
}

type transitionRecorder struct {
	mu  sync.Mutex
	seq []FishingState
}

func (r *transitionRecorder) listener(prev, next FishingState) {
	r.mu.Lock()
	r.seq = append(r.seq, next)
	r.mu.Unlock()
}

func (r *transitionRecorder) states() []FishingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FishingState(nil), r.seq...)
}

func TestCycle_CatchOnThirdAttempt(t *testing.T) {
	log := &eventLog{}
	sink := artifact.NewMemory()
	f := newTestFisher(log, fakeLocator{res: vision.Result{Point: image.Pt(120, 80), Peak: 50}},
		scriptedDetector{log: log, catchOn: map[int]bool{2: true}}, sink)
	rec := &transitionRecorder{}
	f.AddListener(rec.listener)

	res, err := f.Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	want := []string{
		"hold 1 1s",
		"sleep 400ms",
		"grab",
		"move 955,395 450ms",
		"grab",
		"listen 0", "sleep 800ms",
		"listen 1", "sleep 800ms",
		"listen 2",
		"click right",
		"sleep 500ms",
		"sleep 2s",
	}
	if got := log.all(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("events:\n got %v\nwant %v", got, want)
	}
	if !res.Caught || res.Attempts != 3 || res.Wait != 2*time.Second || !res.BaitFound {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := sink.Image(vision.StatusCursorImage); !ok {
		t.Fatalf("status_cursor.png not written")
	}
	wantStates := []FishingState{StateCasting, StateAiming, StateListening, StateReacting, StateCooldown}
	if got := rec.states(); fmt.Sprint(got) != fmt.Sprint(wantStates) {
		t.Fatalf("states = %v, want %v", got, wantStates)
	}
	if f.Iteration() != 1 {
		t.Fatalf("iteration = %d", f.Iteration())
	}
}

func TestCycle_NoCatchNeverClicks(t *testing.T) {
	log := &eventLog{}
	f := newTestFisher(log, fakeLocator{}, scriptedDetector{log: log}, nil)
	res, err := f.Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if n := log.count("click"); n != 0 {
		t.Fatalf("expected no click, got %d", n)
	}
	if n := log.count("listen"); n != 8 {
		t.Fatalf("expected exactly 8 attempts, got %d", n)
	}
	if n := log.count("sleep 800ms"); n != 8 {
		t.Fatalf("expected 8 inter-attempt delays, got %d", n)
	}
	if res.Caught || res.Attempts != 8 || res.Wait != 0 {
		t.Fatalf("result = %+v", res)
	}
	// Each delay follows its attempt.
	ev := log.all()
	for i, e := range ev {
		if strings.HasPrefix(e, "listen") && (i+1 >= len(ev) || ev[i+1] != "sleep 800ms") {
			t.Fatalf("attempt %q not followed by delay: %v", e, ev)
		}
	}
	if f.Current() != StateListening {
		t.Fatalf("state = %v", f.Current())
	}
}

func TestCycle_CatchOnFirstAttemptSkipsRest(t *testing.T) {
	log := &eventLog{}
	f := newTestFisher(log, fakeLocator{}, scriptedDetector{log: log, catchOn: map[int]bool{0: true, 1: true}}, nil)
	if _, err := f.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if n := log.count("listen"); n != 1 {
		t.Fatalf("expected one attempt, got %d", n)
	}
	if n := log.count("click"); n != 1 {
		t.Fatalf("expected one click, got %d", n)
	}
}

func TestCycle_BaitNotFoundSkipsListening(t *testing.T) {
	log := &eventLog{}
	loc := fakeLocator{res: vision.Result{Peak: 1}, err: fmt.Errorf("%w: weak", vision.ErrBaitNotFound)}
	f := newTestFisher(log, loc, scriptedDetector{log: log}, nil)
	res, err := f.Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if res.BaitFound || log.count("listen") != 0 || log.count("move") != 0 {
		t.Fatalf("result=%+v events=%v", res, log.all())
	}
	if s := f.Stats(); s.Casts != 1 || s.NotFound != 1 {
		t.Fatalf("stats = %+v", s)
	}
	if f.Iteration() != 1 {
		t.Fatalf("iteration = %d", f.Iteration())
	}
}

func TestCycle_DetectorErrorIsFatal(t *testing.T) {
	log := &eventLog{}
	f := newTestFisher(log, fakeLocator{}, scriptedDetector{log: log, err: audio.ErrDeviceUnavailable}, nil)
	_, err := f.Cycle(context.Background())
	if !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Fatalf("expected device error, got %v", err)
	}
	if f.Iteration() != 1 {
		t.Fatalf("iteration must advance on failure, got %d", f.Iteration())
	}
}

func TestCycle_IterationCountsEveryOutcome(t *testing.T) {
	log := &eventLog{}
	f := newTestFisher(log, fakeLocator{}, scriptedDetector{log: log, catchOn: map[int]bool{5: true}}, nil)
	for i := 0; i < 3; i++ {
		res, err := f.Cycle(context.Background())
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if res.Iteration != i {
			t.Fatalf("cycle %d reported iteration %d", i, res.Iteration)
		}
	}
	if s := f.Stats(); s.Casts != 3 || s.Catches != 3 {
		t.Fatalf("stats = %+v", s)
	}
}

// cancelDetector cancels the run after a number of listens.
type cancelDetector struct {
	log    *eventLog
	cancel context.CancelFunc
	after  int
	n      *int
}

func (d cancelDetector) Listen(ctx context.Context, attempt int) (audio.Decision, error) {
	*d.n++
	if *d.n >= d.after {
		d.cancel()
	}
	return audio.Decision{Attempt: attempt}, nil
}

func TestRun_StopsCleanlyOnCancel(t *testing.T) {
	log := &eventLog{}
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	f := newTestFisher(log, fakeLocator{}, cancelDetector{log: log, cancel: cancel, after: 11, n: &n}, nil)
	rec := &transitionRecorder{}
	f.AddListener(rec.listener)
	if err := f.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.Current() != StateIdle {
		t.Fatalf("state after run = %v", f.Current())
	}
	if f.Iteration() != 2 {
		t.Fatalf("iteration = %d, want 2", f.Iteration())
	}
	states := rec.states()
	if states[len(states)-1] != StateIdle {
		t.Fatalf("last transition = %v", states[len(states)-1])
	}
}

func TestRun_PauseBlocksNextCycle(t *testing.T) {
	log := &eventLog{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := 0
	f := newTestFisher(log, fakeLocator{}, cancelDetector{log: log, cancel: cancel, after: 1, n: &n}, nil)
	f.Pause()
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	waitForState(t, f, StatePaused, time.Second)
	if log.count("hold") != 0 {
		t.Fatalf("cast while paused")
	}
	if paused := f.TogglePause(); paused {
		t.Fatalf("expected toggle to resume")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not stop")
	}
	if log.count("hold") != 1 {
		t.Fatalf("expected one cast after resume, events %v", log.all())
	}
}

func waitForState(t *testing.T, f *Fisher, expected FishingState, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if f.Current() == expected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for state %v (got %v)", expected, f.Current())
}

func TestFishingState_String(t *testing.T) {
	if StateListening.String() != "listening" || FishingState(99).String() != "unknown" {
		t.Fatalf("unexpected names")
	}
}
