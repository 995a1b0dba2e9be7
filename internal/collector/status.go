package collector

import (
	"sync"
	"time"
)

// Status tracks cycle and per-category outcomes. The collector updates it
// as cycles run; the API server snapshots it for reporting.
//
// Thread Safety: all methods are safe for concurrent use.
type Status struct {
	mu sync.RWMutex

	startedAt         time.Time
	cycleCount        uint64
	lastCycleID       string
	lastCycleStart    time.Time
	lastCycleDuration time.Duration
	lastCycleError    string
	lastCycleErrorAt  time.Time

	categories map[string]*categoryState
}

// categoryState accumulates outcomes for one category across cycles.
type categoryState struct {
	successCount uint64
	errorCount   uint64
	lastSuccess  time.Time
	lastError    string
	lastErrorAt  time.Time
}

// NewStatus returns a Status with every category registered.
func NewStatus() *Status {
	s := &Status{
		startedAt:  time.Now().UTC(),
		categories: make(map[string]*categoryState, len(Categories)),
	}
	for _, category := range Categories {
		s.categories[category] = &categoryState{}
	}
	return s
}

// cycleStarted records the start of a new cycle.
func (s *Status) cycleStarted(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleCount++
	s.lastCycleID = id
	s.lastCycleStart = at
}

// cycleCompleted records how long the finished cycle took.
func (s *Status) cycleCompleted(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCycleDuration = d
}

// cycleFailed records a cycle-level error. The failed cycle never started,
// so the cycle count is untouched.
func (s *Status) cycleFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCycleError = err.Error()
	s.lastCycleErrorAt = time.Now().UTC()
}

// categorySucceeded records a successful fetch-and-write for a category.
func (s *Status) categorySucceeded(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.categories[category]
	if !ok {
		return
	}
	state.successCount++
	state.lastSuccess = time.Now().UTC()
}

// categoryFailed records a fetch or write failure for a category.
func (s *Status) categoryFailed(category string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.categories[category]
	if !ok {
		return
	}
	state.errorCount++
	state.lastError = err.Error()
	state.lastErrorAt = time.Now().UTC()
}

// Snapshot is a point-in-time copy of collector state.
type Snapshot struct {
	StartedAt           string                      `json:"started_at"`
	CycleCount          uint64                      `json:"cycle_count"`
	LastCycleID         string                      `json:"last_cycle_id,omitempty"`
	LastCycleStart      string                      `json:"last_cycle_start,omitempty"`
	LastCycleDurationMS int64                       `json:"last_cycle_duration_ms"`
	LastCycleError      string                      `json:"last_cycle_error,omitempty"`
	LastCycleErrorAt    string                      `json:"last_cycle_error_at,omitempty"`
	Categories          map[string]CategorySnapshot `json:"categories"`
}

// CategorySnapshot is the per-category slice of a Snapshot.
type CategorySnapshot struct {
	SuccessCount uint64 `json:"success_count"`
	ErrorCount   uint64 `json:"error_count"`
	LastSuccess  string `json:"last_success,omitempty"`
	LastError    string `json:"last_error,omitempty"`
	LastErrorAt  string `json:"last_error_at,omitempty"`
}

// Snapshot returns a copy of the current state. Zero timestamps render as
// empty strings so untouched fields drop out of the JSON encoding.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		StartedAt:           formatTime(s.startedAt),
		CycleCount:          s.cycleCount,
		LastCycleID:         s.lastCycleID,
		LastCycleStart:      formatTime(s.lastCycleStart),
		LastCycleDurationMS: s.lastCycleDuration.Milliseconds(),
		LastCycleError:      s.lastCycleError,
		LastCycleErrorAt:    formatTime(s.lastCycleErrorAt),
		Categories:          make(map[string]CategorySnapshot, len(s.categories)),
	}
	for category, state := range s.categories {
		snap.Categories[category] = CategorySnapshot{
			SuccessCount: state.successCount,
			ErrorCount:   state.errorCount,
			LastSuccess:  formatTime(state.lastSuccess),
			LastError:    state.lastError,
			LastErrorAt:  formatTime(state.lastErrorAt),
		}
	}
	return snap
}

// formatTime renders a timestamp as RFC3339, or "" for the zero value.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
