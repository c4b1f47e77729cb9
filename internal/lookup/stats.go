package lookup

import (
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/sententia/internal/morph"
)

// Outcome classifies one service call.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeUnknown
	OutcomeError
)

func outcomeOf(ps []morph.CandidateParse, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeError
	case len(ps) == 0:
		return OutcomeUnknown
	}
	return OutcomeFound
}

type sample struct {
	at         time.Time
	durationMs int64
	outcome    Outcome
}

// StatsSnapshot aggregates the samples inside the window.
type StatsSnapshot struct {
	Count   int     `json:"count"`
	Found   int     `json:"found"`
	Unknown int     `json:"unknown"`
	Errors  int     `json:"errors"`
	MinMs   int64   `json:"min_ms"`
	MaxMs   int64   `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P95Ms   float64 `json:"p95_ms"`
	P99Ms   float64 `json:"p99_ms"`
}

// Stats keeps a rolling window of lookup service latencies.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

// NewStats keeps samples for window (an hour when non-positive).
func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{samples: make([]sample, 0, 256), window: window, now: time.Now}
}

// Record adds one call. Negative durations count as zero.
func (s *Stats) Record(durationMs int64, o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, durationMs: max(durationMs, 0), outcome: o})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var snap StatsSnapshot
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		switch sm.outcome {
		case OutcomeFound:
			snap.Found++
		case OutcomeUnknown:
			snap.Unknown++
		case OutcomeError:
			snap.Errors++
		}
	}
	slices.Sort(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool { return sm.at.Before(cutoff) })
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
