package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MAX_RESULTS", "CACHE_TTL", "SECTION_PLACEMENT", "SAMPLE_FALLBACK", "DEBUG", "TRACING_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResults != 15 || cfg.SampleSize != 10 || cfg.SectionCap != 4 {
		t.Errorf("bounds = %d/%d/%d", cfg.MaxResults, cfg.SampleSize, cfg.SectionCap)
	}
	if cfg.CacheTTL != 30*time.Minute || cfg.PacingDelay != 300*time.Millisecond {
		t.Errorf("durations = %v/%v", cfg.CacheTTL, cfg.PacingDelay)
	}
	if !cfg.SampleFallback || cfg.SectionPlacement != "primary" {
		t.Errorf("fallback/placement = %v/%s", cfg.SampleFallback, cfg.SectionPlacement)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAX_RESULTS", "5")
	t.Setenv("ARTICLE_TIMEOUT", "2s")
	t.Setenv("SECTION_PLACEMENT", "ALL")
	t.Setenv("SAMPLE_FALLBACK", "false")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResults != 5 || cfg.ArticleTimeout != 2*time.Second {
		t.Errorf("got %d / %v", cfg.MaxResults, cfg.ArticleTimeout)
	}
	if cfg.SectionPlacement != "all" || cfg.SampleFallback || !cfg.Debug {
		t.Errorf("placement/fallback/debug = %s/%v/%v", cfg.SectionPlacement, cfg.SampleFallback, cfg.Debug)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_RESULTS", "many")
	t.Setenv("FEED_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResults != 15 || cfg.FeedTimeout != 10*time.Second {
		t.Errorf("got %d / %v", cfg.MaxResults, cfg.FeedTimeout)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"zero results":      {"MAX_RESULTS": "0"},
		"unknown placement": {"SECTION_PLACEMENT": "sideways"},
		"negative workers":  {"SUMMARIZE_CONCURRENCY": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
