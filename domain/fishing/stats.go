package fishing

import (
	"sync"
	"time"
)

// SessionStats counts cycle outcomes and tracks active fishing time. Time
// spent paused is excluded from the active total. The zero value is ready to
// use and it is safe for concurrent use.
type SessionStats struct {
	mu          sync.Mutex
	casts       int
	catches     int
	misses      int
	notFound    int
	active      bool
	activeSince time.Time
	accumulated time.Duration
}

// StatsSnapshot is a point-in-time copy of SessionStats.
type StatsSnapshot struct {
	Casts    int
	Catches  int
	Misses   int
	NotFound int
	Active   time.Duration
}

// CatchRate is catches per cast, 0 before the first cast.
func (s StatsSnapshot) CatchRate() float64 {
	if s.Casts == 0 {
		return 0
	}
	return float64(s.Catches) / float64(s.Casts)
}

func NewSessionStats() *SessionStats { return &SessionStats{} }

// OnTick updates active time tracking. Call with active=true when fishing
// starts or resumes and active=false when it pauses or stops.
func (m *SessionStats) OnTick(active bool, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if active {
		if !m.active { // off -> on
			m.active = true
			m.activeSince = now
		}
		return
	}
	if m.active { // on -> off
		m.accumulated += now.Sub(m.activeSince)
		m.active = false
	}
}

// Record adds the outcome of one cycle.
func (m *SessionStats) Record(r CycleResult) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casts++
	switch {
	case !r.BaitFound:
		m.notFound++
	case r.Caught:
		m.catches++
	default:
		m.misses++
	}
}

// Snapshot returns the counters with active time measured up to now.
func (m *SessionStats) Snapshot(now time.Time) StatsSnapshot {
	if m == nil {
		return StatsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.accumulated
	if m.active {
		total += now.Sub(m.activeSince)
	}
	return StatsSnapshot{Casts: m.casts, Catches: m.catches, Misses: m.misses, NotFound: m.notFound, Active: total}
}
