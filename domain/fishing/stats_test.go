package fishing

import (
	"testing"
	"time"
)

func TestSessionStats_ActiveTimeExcludesPauses(t *testing.T) {
	m := NewSessionStats()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	if s := m.Snapshot(base.Add(5 * time.Second)); s.Active != 5*time.Second {
		t.Fatalf("ongoing active = %v", s.Active)
	}
	m.OnTick(false, base.Add(5*time.Second))
	if s := m.Snapshot(base.Add(7 * time.Second)); s.Active != 5*time.Second {
		t.Fatalf("paused time counted: %v", s.Active)
	}
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(11*time.Second)) // repeated start is a no-op
	if s := m.Snapshot(base.Add(13 * time.Second)); s.Active != 8*time.Second {
		t.Fatalf("expected 5s + 3s, got %v", s.Active)
	}
}

func TestSessionStats_Record(t *testing.T) {
	m := NewSessionStats()
	m.Record(CycleResult{BaitFound: true, Caught: true})
	m.Record(CycleResult{BaitFound: true})
	m.Record(CycleResult{})
	m.Record(CycleResult{BaitFound: true, Caught: true})
	s := m.Snapshot(time.Now())
	if s.Casts != 4 || s.Catches != 2 || s.Misses != 1 || s.NotFound != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.CatchRate() != 0.5 {
		t.Fatalf("catch rate = %v", s.CatchRate())
	}
}

func TestSessionStats_NilSafe(t *testing.T) {
	var m *SessionStats
	m.OnTick(true, time.Now())
	m.Record(CycleResult{})
	if s := m.Snapshot(time.Now()); s.Casts != 0 {
		t.Fatalf("nil stats = %+v", s)
	}
}
