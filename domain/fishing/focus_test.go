package fishing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soocke/pixel-fisher-go/domain/action"
)

type fakeWindows struct {
	titles      []string
	listErr     error
	foregrounds []string // successive foreground titles; the last one repeats
	calls       int
}

func (w *fakeWindows) ListWindows() ([]string, error) { return w.titles, w.listErr }

func (w *fakeWindows) ForegroundWindowTitle() (string, error) {
	i := min(w.calls, len(w.foregrounds)-1)
	w.calls++
	return w.foregrounds[i], nil
}

func TestWaitForFocus_PollsUntilFocused(t *testing.T) {
	log := &eventLog{}
	w := &fakeWindows{
		titles:      []string{"Terminal", "World of Warcraft"},
		foregrounds: []string{"Terminal", "Terminal", "World of Warcraft"},
	}
	err := WaitForFocus(context.Background(), w, "World of Warcraft", 2*time.Second, logSleeper{log}, discardLogger)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if n := log.count("sleep 2s"); n != 2 {
		t.Fatalf("expected 2 polls, got %d", n)
	}
}

func TestWaitForFocus_MissingWindowIsFatal(t *testing.T) {
	w := &fakeWindows{titles: []string{"Terminal"}, foregrounds: []string{"Terminal"}}
	err := WaitForFocus(context.Background(), w, "World of Warcraft", time.Second, logSleeper{&eventLog{}}, nil)
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestWaitForFocus_UnsupportedListingSkipsCheck(t *testing.T) {
	w := &fakeWindows{listErr: action.ErrUnsupported, foregrounds: []string{"World of Warcraft"}}
	if err := WaitForFocus(context.Background(), w, "World of Warcraft", time.Second, logSleeper{&eventLog{}}, nil); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestWaitForFocus_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &fakeWindows{titles: []string{"Game"}, foregrounds: []string{"Other"}}
	err := WaitForFocus(ctx, w, "Game", time.Second, logSleeper{&eventLog{}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestAwaitFocus_Transitions(t *testing.T) {
	log := &eventLog{}
	f := newTestFisher(log, fakeLocator{}, scriptedDetector{log: log}, nil)
	rec := &transitionRecorder{}
	f.AddListener(rec.listener)
	w := &fakeWindows{titles: []string{"Game"}, foregrounds: []string{"Game"}}
	if err := f.AwaitFocus(context.Background(), w, "Game", time.Second); err != nil {
		t.Fatalf("await: %v", err)
	}
	got := rec.states()
	if len(got) != 2 || got[0] != StateWaitingFocus || got[1] != StateIdle {
		t.Fatalf("states = %v", got)
	}
}
