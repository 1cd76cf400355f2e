// Package app wires configuration, retrieval, the digest pipeline and
// export into one service used by the CLI and the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/deusflow/digest/internal/cache"
	"github.com/deusflow/digest/internal/categorize"
	"github.com/deusflow/digest/internal/config"
	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/newsletter"
	"github.com/deusflow/digest/internal/profiles"
	"github.com/deusflow/digest/internal/ratelimit"
	"github.com/deusflow/digest/internal/relevance"
	"github.com/deusflow/digest/internal/rss"
	"github.com/deusflow/digest/internal/scraper"
	"github.com/deusflow/digest/internal/storage"
	"github.com/deusflow/digest/internal/summarize"
	"github.com/deusflow/digest/internal/taxonomy"
	"github.com/deusflow/digest/internal/textutil"
)

// App is the assembled digest service.
type App struct {
	cfg      *config.Config
	profiles *profiles.Registry
	source   *CachedSource
	pipeline *Pipeline
	exporter *storage.FileExporter
	pacer    *ratelimit.HostPacer
	metrics  *metrics.Metrics
}

// Deps overrides collaborators, mostly for tests. Nil fields are built from
// the configuration.
type Deps struct {
	Fetcher   ItemFetcher
	Extractor summarize.Extractor
	Profiles  *profiles.Registry
	Taxonomy  *taxonomy.Taxonomy
	Metrics   *metrics.Metrics
}

// New builds the service from cfg.
func New(cfg *config.Config, deps Deps) (*App, error) {
	m := deps.Metrics
	if m == nil {
		m = metrics.Global
	}

	tx := deps.Taxonomy
	if tx == nil {
		var err error
		if tx, err = loadTaxonomy(cfg.TaxonomyPath); err != nil {
			return nil, err
		}
	}

	reg := deps.Profiles
	if reg == nil {
		var err error
		if reg, err = profiles.Load(cfg.ProfilesPath); err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
	}

	groups, err := loadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return nil, err
	}

	placement, err := newsletter.ParsePlacement(cfg.SectionPlacement)
	if err != nil {
		return nil, err
	}

	pacer := ratelimit.NewHostPacer(cfg.PacingDelay)
	splitter := textutil.NewSplitter()

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = rss.NewFetcher(rss.Options{
			ProbeTimeout:   cfg.ProbeTimeout,
			FeedTimeout:    cfg.FeedTimeout,
			MaxItems:       cfg.MaxItemsPerFeed,
			SampleFallback: cfg.SampleFallback,
			Attempts:       cfg.FeedAttempts,
			RetryDelay:     cfg.FeedRetryDelay,
		}, pacer, m)
	}
	extractor := deps.Extractor
	if extractor == nil {
		extractor = scraper.New(cfg.ArticleTimeout, pacer, splitter)
	}

	source := NewCachedSource(fetcher, groups, categorize.New(tx, m), cache.New(cfg.CacheTTL), m)
	pipeline := NewPipeline(
		source,
		relevance.New(tx, relevance.WithMaxResults(cfg.MaxResults), relevance.WithSampleSize(cfg.SampleSize)),
		summarize.New(extractor, splitter, cfg.SummarizeConcurrency, m),
		newsletter.New(tx, newsletter.WithSectionCap(cfg.SectionCap), newsletter.WithPlacement(placement)),
		m,
	)

	exporter := storage.NewFileExporter(cfg.OutputDir)
	if err := exporter.Load(); err != nil {
		logger.Warn("export index unreadable, starting fresh", "error", err)
	}

	return &App{
		cfg:      cfg,
		profiles: reg,
		source:   source,
		pipeline: pipeline,
		exporter: exporter,
		pacer:    pacer,
		metrics:  m,
	}, nil
}

// Profiles lists the registered readers.
func (a *App) Profiles() []news.Profile { return a.profiles.All() }

// Profile looks up one reader.
func (a *App) Profile(name string) (news.Profile, error) { return a.profiles.Get(name) }

// Generate builds the digest for the named reader. Only an unknown reader is
// an error.
func (a *App) Generate(ctx context.Context, name string) (Digest, error) {
	p, err := a.profiles.Get(name)
	if err != nil {
		return Digest{}, err
	}
	return a.pipeline.Generate(ctx, p), nil
}

// Export writes d to the output directory.
func (a *App) Export(d Digest) (storage.ExportRecord, error) {
	rec, err := a.exporter.Export(d.ID, d.Reader, d.Filename(), d.GeneratedAt, d.Markdown)
	if err != nil {
		a.metrics.SetError(err.Error())
		return rec, err
	}
	logger.Info("newsletter exported", "reader", d.Reader, "file", a.exporter.Path(rec))
	return rec, nil
}

// ExportPath is where rec lives on disk.
func (a *App) ExportPath(rec storage.ExportRecord) string { return a.exporter.Path(rec) }

// Exports lists exported newsletters, newest first.
func (a *App) Exports() []storage.ExportRecord { return a.exporter.Records() }

// InvalidateCache drops the categorized snapshot.
func (a *App) InvalidateCache() { a.source.Invalidate() }

// Stats returns process metrics together with pacing and export counters.
func (a *App) Stats() map[string]interface{} {
	stats := a.metrics.GetStats()
	for k, v := range a.pacer.GetStats() {
		stats[k] = v
	}
	for k, v := range a.exporter.GetStats() {
		stats[k] = v
	}
	return stats
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	tx, err := taxonomy.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	return tx, nil
}

func loadFeeds(path string) ([]rss.FeedGroup, error) {
	groups, err := rss.LoadFeeds(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("feeds config not found, using built-in feeds", "path", path)
		return rss.DefaultFeeds(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	return groups, nil
}
