// Package rss retrieves raw items from the configured feed groups. Retrieval
// failures are never fatal: a failing feed is skipped and a category whose
// feeds all fail can be backed by the built-in sample corpus.
package rss

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/ratelimit"
	"github.com/deusflow/digest/internal/retry"
	"github.com/deusflow/digest/internal/textutil"
)

// ErrUnavailable is returned when the availability probe fails.
var ErrUnavailable = errors.New("rss: feed unavailable")

const userAgent = "Mozilla/5.0 (compatible; digest-bot/1.0)"

// Options tune a Fetcher. Zero values fall back to the defaults below.
type Options struct {
	ProbeTimeout   time.Duration
	FeedTimeout    time.Duration
	MaxItems       int
	SampleFallback bool

	// Attempts and RetryDelay govern re-downloading a feed after a network
	// error or a 5xx answer.
	Attempts   int
	RetryDelay time.Duration
}

const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultFeedTimeout  = 10 * time.Second
	DefaultMaxItems     = 10
	DefaultAttempts     = 2
	DefaultRetryDelay   = 500 * time.Millisecond
)

// Fetcher downloads and parses feeds.
type Fetcher struct {
	client  *http.Client
	opts    Options
	pacer   *ratelimit.HostPacer
	metrics *metrics.Metrics
	strip   *bluemonday.Policy
	now     func() time.Time
}

// NewFetcher returns a Fetcher. pacer may be nil.
func NewFetcher(opts Options, pacer *ratelimit.HostPacer, m *metrics.Metrics) *Fetcher {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.FeedTimeout <= 0 {
		opts.FeedTimeout = DefaultFeedTimeout
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if m == nil {
		m = metrics.Global
	}
	return &Fetcher{
		client:  &http.Client{},
		opts:    opts,
		pacer:   pacer,
		metrics: m,
		strip:   bluemonday.StrictPolicy(),
		now:     time.Now,
	}
}

// FetchAll retrieves every group and returns the items newest first. It
// never fails; the result may be empty when sample fallback is off.
func (f *Fetcher) FetchAll(ctx context.Context, groups []FeedGroup) []news.Item {
	var all []news.Item
	for _, g := range groups {
		var group []news.Item
		for _, u := range g.URLs {
			items, err := f.FetchFeed(ctx, u, g.Category)
			if err != nil {
				logger.Warn("feed skipped", "url", u, "category", g.Category, "error", err)
				f.metrics.IncrementFeedFailures()
				continue
			}
			group = append(group, items...)
		}

		if len(group) == 0 && f.opts.SampleFallback {
			logger.Info("using sample items", "category", g.Category)
			f.metrics.IncrementSampleFallbacks()
			group = SampleItems(g.Category, f.now())
		}
		all = append(all, group...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})
	f.metrics.AddItemsFetched(len(all))
	logger.Info("feeds retrieved", "groups", len(groups), "items", len(all))
	return all
}

// Probe checks that feedURL answers a HEAD request with a status below 400.
func (f *Fetcher) Probe(ctx context.Context, feedURL string) error {
	ctx, cancel := context.WithTimeout(ctx, f.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, feedURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// FetchFeed probes, downloads and parses one feed, tagging items with
// category. Entries without a title are skipped.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL, category string) ([]news.Item, error) {
	if err := f.pacer.Wait(ctx, feedURL); err != nil {
		return nil, err
	}
	if err := f.Probe(ctx, feedURL); err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = userAgent

	var feed *gofeed.Feed
	policy := retry.Policy{
		MaxAttempts: f.opts.Attempts,
		Delay:       f.opts.RetryDelay,
		Backoff:     true,
		Retryable:   transient,
	}
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, f.opts.FeedTimeout)
		defer cancel()

		var err error
		feed, err = parser.ParseURLWithContext(feedURL, ctx)
		if err != nil && transient(err) {
			logger.Debug("feed download failed, may retry", "url", feedURL, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = hostOf(feedURL)
	}

	entries := feed.Items
	if len(entries) > f.opts.MaxItems {
		entries = entries[:f.opts.MaxItems]
	}

	items := make([]news.Item, 0, len(entries))
	for _, e := range entries {
		if e == nil || strings.TrimSpace(e.Title) == "" {
			logger.Debug("entry skipped", "url", feedURL)
			f.metrics.IncrementEntriesSkipped()
			continue
		}
		items = append(items, news.Item{
			Title:            textutil.CollapseWhitespace(e.Title),
			Link:             strings.TrimSpace(e.Link),
			Published:        f.published(e),
			Content:          f.content(e),
			Source:           source,
			FeedCategoryHint: category,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no usable entries in %s", feedURL)
	}

	logger.Debug("feed loaded", "url", feedURL, "items", len(items))
	return items, nil
}

func (f *Fetcher) published(e *gofeed.Item) time.Time {
	switch {
	case e.PublishedParsed != nil:
		return *e.PublishedParsed
	case e.UpdatedParsed != nil:
		return *e.UpdatedParsed
	}
	return f.now()
}

// content prefers the full body and falls back to the description, with
// markup removed.
func (f *Fetcher) content(e *gofeed.Item) string {
	raw := e.Content
	if strings.TrimSpace(raw) == "" {
		raw = e.Description
	}
	// keep words from adjacent elements apart once tags are gone
	raw = strings.ReplaceAll(raw, "<", " <")
	return textutil.CollapseWhitespace(html.UnescapeString(f.strip.Sanitize(raw)))
}

// transient reports whether a download error may go away on its own.
func transient(err error) bool {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
