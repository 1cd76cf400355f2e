package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/newsletter"
	"github.com/deusflow/digest/internal/relevance"
	"github.com/deusflow/digest/internal/summarize"
)

// Digest is one generated newsletter. NoContent marks the empty result
// state: no item survived any filter tier.
type Digest struct {
	ID          string            `json:"id"`
	Reader      string            `json:"reader"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Tier        relevance.Tier    `json:"tier"`
	NoContent   bool              `json:"noContent"`
	Items       []news.Summarized `json:"-"`
	Markdown    string            `json:"markdown"`
}

// Timestamp is the reader-facing generation time.
func (d Digest) Timestamp() string { return newsletter.Timestamp(d.GeneratedAt) }

// Filename is the export name for the digest.
func (d Digest) Filename() string { return newsletter.ExportFilename(d.Reader, d.GeneratedAt) }

// Pipeline runs Categorize → Filter → Summarize → Compose for one reader.
// Categorizing happens inside the ItemSource so its output can be shared.
type Pipeline struct {
	source     ItemSource
	filter     *relevance.Filter
	summarizer *summarize.Summarizer
	composer   *newsletter.Composer
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewPipeline wires the stages. m may be nil.
func NewPipeline(source ItemSource, filter *relevance.Filter, summarizer *summarize.Summarizer, composer *newsletter.Composer, m *metrics.Metrics) *Pipeline {
	if m == nil {
		m = metrics.Global
	}
	return &Pipeline{
		source:     source,
		filter:     filter,
		summarizer: summarizer,
		composer:   composer,
		metrics:    m,
		now:        time.Now,
	}
}

// Generate builds the digest for p. It does not fail: every stage degrades
// to its fallback, and the worst case is a sampled or empty digest.
func (p *Pipeline) Generate(ctx context.Context, profile news.Profile) Digest {
	start := time.Now()
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(attribute.String("digest.reader", profile.Name))

	_, sourceSpan := tracer.Start(ctx, "LoadItems")
	items := p.source.Items(ctx)
	sourceSpan.SetAttributes(attribute.Int("items.count", len(items)))
	sourceSpan.End()

	_, filterSpan := tracer.Start(ctx, "Filter")
	result := p.filter.Filter(items, profile)
	filterSpan.SetAttributes(
		attribute.String("filter.tier", string(result.Tier)),
		attribute.Int("filter.selected", len(result.Items)),
	)
	filterSpan.End()

	d := Digest{
		ID:          uuid.NewString(),
		Reader:      profile.Name,
		GeneratedAt: p.now(),
		Tier:        result.Tier,
	}

	if result.Empty() {
		logger.Warn("no content for reader", "reader", profile.Name, "items", len(items))
		d.NoContent = true
		d.Tier = relevance.TierNone
		p.metrics.IncrementEmptyDigests()
	} else {
		sumCtx, sumSpan := tracer.Start(ctx, "Summarize")
		d.Items = p.summarizer.SummarizeAll(sumCtx, result.Items)
		sumSpan.End()
	}

	_, composeSpan := tracer.Start(ctx, "Compose")
	d.Markdown = p.composer.Compose(d.Items, profile, d.GeneratedAt)
	composeSpan.End()

	elapsed := time.Since(start)
	p.metrics.IncrementDigestsGenerated()
	p.metrics.RecordProcessingTime(elapsed)
	p.metrics.SetLastRun()
	span.SetAttributes(
		attribute.String("digest.id", d.ID),
		attribute.String("digest.tier", string(d.Tier)),
		attribute.Bool("digest.no_content", d.NoContent),
	)
	logger.Info("digest generated",
		"reader", profile.Name, "id", d.ID, "tier", d.Tier, "items", len(d.Items), "took", elapsed)
	return d
}
