package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCounters(t *testing.T) {
	m := New()
	m.AddItemsFetched(12)
	m.IncrementFeedFailures()
	m.IncrementSampleFallbacks()
	m.IncrementCacheHits()
	m.IncrementCacheHits()

	stats := m.GetStats()
	if stats["items_fetched"] != int64(12) || stats["feed_failures"] != int64(1) {
		t.Errorf("stats = %v", stats)
	}
	if stats["cache_hits"] != int64(2) || stats["sample_fallbacks"] != int64(1) {
		t.Errorf("stats = %v", stats)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementDigestsGenerated()
		}()
	}
	wg.Wait()
	if m.GetStats()["digests_generated"] != int64(50) {
		t.Errorf("digests_generated = %v", m.GetStats()["digests_generated"])
	}
}

func TestProcessingTimeAverage(t *testing.T) {
	m := New()
	m.RecordProcessingTime(100 * time.Millisecond)
	m.RecordProcessingTime(300 * time.Millisecond)

	stats := m.GetStats()
	if stats["last_processing_time_ms"] != int64(300) || stats["average_processing_time_ms"] != int64(200) {
		t.Errorf("stats = %v", stats)
	}
}

func TestErrorThenRunRestoresHealth(t *testing.T) {
	m := New()
	m.SetError("export failed")
	if m.GetStats()["is_healthy"] != false || m.GetStats()["last_error"] != "export failed" {
		t.Fatalf("stats = %v", m.GetStats())
	}
	m.SetLastRun()
	if m.GetStats()["is_healthy"] != true {
		t.Error("successful run should mark healthy")
	}
}
