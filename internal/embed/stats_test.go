package embed

import (
	"testing"
	"time"
)

func TestStatsSnapshotAggregates(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(100, 768)
	stats.Record(200, 768)
	stats.Record(300, 768)
	stats.Record(400, 768)
	stats.Record(500, 768)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Dim != 768 {
		t.Fatalf("expected dim=768, got %d", snap.Dim)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsDimFollowsLatestCall(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(10, 256)
	stats.Record(12, 1024)

	if got := stats.Snapshot().Dim; got != 1024 {
		t.Fatalf("expected latest dim=1024, got %d", got)
	}
}

func TestStatsPrunesExpiredCalls(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(100, 256)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}
	if snap.Dim != 0 {
		t.Fatalf("expected dim reset after prune, got %d", snap.Dim)
	}

	stats.Record(200, 256)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh call, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(-10, 256)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
