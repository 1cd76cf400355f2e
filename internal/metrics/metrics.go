package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsFetched            int64
	FeedFailures            int64
	EntriesSkipped          int64
	SampleFallbacks         int64
	ItemsCategorized        int64
	CategorizationFallbacks int64
	SummariesExtracted      int64
	SummaryFallbacks        int64
	DigestsGenerated        int64
	EmptyDigests            int64
	CacheHits               int64
	CacheMisses             int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) add(counter *int64, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter += n
}

func (m *Metrics) AddItemsFetched(n int)         { m.add(&m.ItemsFetched, int64(n)) }
func (m *Metrics) IncrementFeedFailures()        { m.add(&m.FeedFailures, 1) }
func (m *Metrics) IncrementEntriesSkipped()      { m.add(&m.EntriesSkipped, 1) }
func (m *Metrics) IncrementSampleFallbacks()     { m.add(&m.SampleFallbacks, 1) }
func (m *Metrics) IncrementItemsCategorized()    { m.add(&m.ItemsCategorized, 1) }
func (m *Metrics) IncrementCategorizeFallbacks() { m.add(&m.CategorizationFallbacks, 1) }
func (m *Metrics) IncrementSummariesExtracted()  { m.add(&m.SummariesExtracted, 1) }
func (m *Metrics) IncrementSummaryFallbacks()    { m.add(&m.SummaryFallbacks, 1) }
func (m *Metrics) IncrementDigestsGenerated()    { m.add(&m.DigestsGenerated, 1) }
func (m *Metrics) IncrementEmptyDigests()        { m.add(&m.EmptyDigests, 1) }
func (m *Metrics) IncrementCacheHits()           { m.add(&m.CacheHits, 1) }
func (m *Metrics) IncrementCacheMisses()         { m.add(&m.CacheMisses, 1) }

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"items_fetched":              m.ItemsFetched,
		"feed_failures":              m.FeedFailures,
		"entries_skipped":            m.EntriesSkipped,
		"sample_fallbacks":           m.SampleFallbacks,
		"items_categorized":          m.ItemsCategorized,
		"categorization_fallbacks":   m.CategorizationFallbacks,
		"summaries_extracted":        m.SummariesExtracted,
		"summary_fallbacks":          m.SummaryFallbacks,
		"digests_generated":          m.DigestsGenerated,
		"empty_digests":              m.EmptyDigests,
		"cache_hits":                 m.CacheHits,
		"cache_misses":               m.CacheMisses,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
