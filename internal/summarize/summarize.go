// Package summarize attaches a short extractive summary to each selected
// item. Summarizing never fails: every error degrades to a shorter fallback
// so the summary is always non-empty.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/scraper"
	"github.com/deusflow/digest/internal/textutil"
)

const (
	// PrefixLength is the rune length of the content-prefix fallback.
	PrefixLength = 250

	minExtractedLength = 100
	minSummaryLength   = 50
	leadSentences      = 3

	placeholder = "No summary available."
)

// Source names the step of the chain that produced a summary.
type Source string

const (
	SourceExtracted Source = "extracted"
	SourceSentences Source = "sentences"
	SourcePrefix    Source = "prefix"
	SourceNoLink    Source = "no-link"
)

// Outcome reports how a summary was obtained. Err is the failure that forced
// a fallback, if any.
type Outcome struct {
	Source Source
	Err    error
}

// Extractor fetches a page and returns its parsed text and summary.
type Extractor interface {
	Extract(ctx context.Context, url string) (*scraper.Extraction, error)
}

// Summarizer runs the summary fallback chain.
type Summarizer struct {
	extractor   Extractor
	splitter    textutil.Splitter
	metrics     *metrics.Metrics
	concurrency int
}

// New returns a Summarizer. concurrency below 1 means sequential.
func New(extractor Extractor, splitter textutil.Splitter, concurrency int, m *metrics.Metrics) *Summarizer {
	if splitter == nil {
		splitter = textutil.NewSplitter()
	}
	if m == nil {
		m = metrics.Global
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Summarizer{
		extractor:   extractor,
		splitter:    splitter,
		metrics:     m,
		concurrency: concurrency,
	}
}

// Summarize returns a copy of item with a summary. The summary is never empty.
func (s *Summarizer) Summarize(ctx context.Context, item news.Scored) (news.Summarized, Outcome) {
	summary, outcome := s.summarize(ctx, item)
	if outcome.Err != nil {
		logger.Warn("summary fallback", "title", item.Title, "source", outcome.Source, "error", outcome.Err)
	}
	if outcome.Source == SourceExtracted {
		s.metrics.IncrementSummariesExtracted()
	} else {
		s.metrics.IncrementSummaryFallbacks()
	}
	return news.Summarized{Scored: item, Summary: summary}, outcome
}

// SummarizeAll summarizes items, keeping their order. Network calls run on up
// to concurrency workers.
func (s *Summarizer) SummarizeAll(ctx context.Context, items []news.Scored) []news.Summarized {
	out := make([]news.Summarized, len(items))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			out[i], _ = s.Summarize(ctx, items[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Summarizer) summarize(ctx context.Context, item news.Scored) (summary string, outcome Outcome) {
	if strings.TrimSpace(item.Link) == "" {
		return prefix(item), Outcome{Source: SourceNoLink}
	}
	if s.extractor == nil {
		return prefix(item), Outcome{Source: SourcePrefix, Err: fmt.Errorf("no extractor configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			summary = prefix(item)
			outcome = Outcome{Source: SourcePrefix, Err: fmt.Errorf("summarize: panic: %v", r)}
		}
	}()

	ext, err := s.extractor.Extract(ctx, item.Link)
	if err != nil {
		return prefix(item), Outcome{Source: SourcePrefix, Err: fmt.Errorf("extract %s: %w", item.Link, err)}
	}

	summary, source := "", SourceExtracted
	if ext != nil {
		summary = ext.Summary
	}

	if textutil.RuneLen(summary) < minExtractedLength {
		sentences := s.splitter.Split(item.Content)
		if len(sentences) > leadSentences {
			sentences = sentences[:leadSentences]
		}
		if len(sentences) > 0 {
			summary, source = strings.Join(sentences, " "), SourceSentences
		} else {
			summary, source = textutil.Prefix(item.Content, PrefixLength), SourcePrefix
		}
	}

	summary = textutil.EnsureTerminal(textutil.CollapseWhitespace(summary))
	if textutil.RuneLen(summary) < minSummaryLength {
		return prefix(item), Outcome{Source: SourcePrefix}
	}
	return summary, Outcome{Source: source}
}

// prefix is the last-resort summary: the content prefix, then the title,
// then a placeholder.
func prefix(item news.Scored) string {
	if p := textutil.Prefix(textutil.CollapseWhitespace(item.Content), PrefixLength); p != "" {
		return p
	}
	if p := textutil.Prefix(textutil.CollapseWhitespace(item.Title), PrefixLength); p != "" {
		return p
	}
	return placeholder
}
