package app

import (
	"context"
	"sync"

	"github.com/deusflow/digest/internal/cache"
	"github.com/deusflow/digest/internal/categorize"
	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/rss"
)

// ItemFetcher retrieves raw items from feed groups. It never fails; an
// unreachable source just contributes nothing.
type ItemFetcher interface {
	FetchAll(ctx context.Context, groups []rss.FeedGroup) []news.Item
}

// ItemSource provides the categorized item set for one request. Callers own
// the returned slice.
type ItemSource interface {
	Items(ctx context.Context) []news.Categorized
}

// CachedSource fetches and categorizes items once per cache window and
// serves copies to every reader in that window.
type CachedSource struct {
	fetcher     ItemFetcher
	groups      []rss.FeedGroup
	categorizer *categorize.Categorizer
	cache       *cache.Cache
	key         string
	metrics     *metrics.Metrics

	// serializes refreshes so concurrent misses fetch once
	refresh sync.Mutex
}

// NewCachedSource returns a source over groups.
func NewCachedSource(fetcher ItemFetcher, groups []rss.FeedGroup, categorizer *categorize.Categorizer, c *cache.Cache, m *metrics.Metrics) *CachedSource {
	if m == nil {
		m = metrics.Global
	}
	parts := make([]string, 0, len(groups)*4)
	for _, g := range groups {
		parts = append(parts, g.Category)
		parts = append(parts, g.URLs...)
	}
	return &CachedSource{
		fetcher:     fetcher,
		groups:      groups,
		categorizer: categorizer,
		cache:       c,
		key:         cache.GenerateKey(parts...),
		metrics:     m,
	}
}

// Items implements ItemSource.
func (s *CachedSource) Items(ctx context.Context) []news.Categorized {
	if items, _, ok := s.cache.Get(s.key); ok {
		s.metrics.IncrementCacheHits()
		return items
	}

	s.refresh.Lock()
	defer s.refresh.Unlock()

	// another request may have refreshed while we waited
	if items, _, ok := s.cache.Get(s.key); ok {
		s.metrics.IncrementCacheHits()
		return items
	}
	s.metrics.IncrementCacheMisses()

	// detached from the caller: the snapshot outlives this request and the
	// per-step timeouts bound the refresh
	raw := s.fetcher.FetchAll(context.WithoutCancel(ctx), s.groups)
	categorized := s.categorizer.CategorizeAll(raw)

	if !live(raw) {
		logger.Warn("no live feed items, snapshot not cached", "items", len(raw))
		return categorized
	}
	s.cache.Set(s.key, categorized)
	logger.Info("categorized snapshot refreshed", "items", len(categorized))

	// Set stored its own copy, so this slice is ours to hand out
	return categorized
}

// Invalidate drops the snapshot; the next request refetches.
func (s *CachedSource) Invalidate() {
	s.cache.Invalidate()
	logger.Info("categorized snapshot invalidated")
}

// live reports whether at least one item came from a real feed.
func live(items []news.Item) bool {
	for _, it := range items {
		if !rss.IsSample(it) {
			return true
		}
	}
	return false
}
