package embed

import (
	"math"
	"sort"
	"sync"
	"time"
)

type call struct {
	at  time.Time
	ms  int64
	dim int
}

// StatsSnapshot is a point-in-time aggregate of embedding calls within
// the rolling window. Dim is the vector width of the latest call, so a
// backend that changes output shape mid-flight shows up immediately.
type StatsSnapshot struct {
	Count int     `json:"count"`
	Dim   int     `json:"dim"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks recent embedding calls. Remote backends record here so
// /api/stats/embed can report inference latency and vector shape.
type Stats struct {
	mu     sync.Mutex
	calls  []call
	maxAge time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		calls:  make([]call, 0, 256),
		maxAge: maxAge,
	}
}

// Record notes one embedding call: its latency and the width of the
// returned vector.
func (s *Stats) Record(durationMs int64, dim int) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.calls = append(s.calls, call{at: now, ms: durationMs, dim: dim})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.calls) == 0 {
		return StatsSnapshot{}
	}

	latencies := make([]int64, 0, len(s.calls))
	var sum int64
	for _, c := range s.calls {
		latencies = append(latencies, c.ms)
		sum += c.ms
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	return StatsSnapshot{
		Count: len(latencies),
		Dim:   s.calls[len(s.calls)-1].dim,
		MinMs: latencies[0],
		MaxMs: latencies[len(latencies)-1],
		AvgMs: float64(sum) / float64(len(latencies)),
		P50Ms: percentile(latencies, 50),
		P95Ms: percentile(latencies, 95),
		P99Ms: percentile(latencies, 99),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	kept := s.calls[:0]
	for _, c := range s.calls {
		if !c.at.Before(cutoff) {
			kept = append(kept, c)
		}
	}
	s.calls = kept
}

// percentile interpolates linearly between neighboring samples.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	pos := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}
