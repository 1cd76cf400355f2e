// Package relevance scores categorized items against a reader profile and
// selects the bounded, ordered set that goes into the reader's digest.
//
// Scores are written into fresh news.Scored values; the categorized input is
// never modified, so one cached item set can serve any number of readers.
package relevance

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/taxonomy"
)

// Tier names the selection stage that produced a Result.
type Tier string

const (
	// TierMatched means at least one item scored above zero.
	TierMatched Tier = "matched"
	// TierEntertainment is the broad entertainment pass for entertainment-minded readers.
	TierEntertainment Tier = "entertainment"
	// TierSample is the unscored sample of generic items.
	TierSample Tier = "sample"
	// TierNone means there was nothing to select from.
	TierNone Tier = "none"
)

const (
	DefaultMaxResults = 15
	DefaultSampleSize = 10

	categoryPoints      = 3
	titlePoints         = 4
	contentPoints       = 1
	sourcePoints        = 2
	affinityTitlePoints = 2
	affinityBodyPoints  = 1
	broadPoints         = 1
)

// entertainmentKeywords decide whether a reader is entertainment-minded and
// drive the zero-score affinity check.
var entertainmentKeywords = []string{
	"entertainment", "movie", "movies", "film", "films", "cinema", "tv", "television",
	"show", "shows", "series", "streaming", "music", "song", "album", "concert",
	"celebrity", "celebrities", "hollywood", "actor", "actress", "book", "books", "novel",
}

// Result is the ordered selection for one reader.
type Result struct {
	Tier  Tier
	Items []news.Scored
}

// Empty reports whether no item was selected.
func (r Result) Empty() bool { return len(r.Items) == 0 }

// Filter holds the scoring rules. It keeps no per-request state.
type Filter struct {
	taxonomy   *taxonomy.Taxonomy
	maxResults int
	sampleSize int
	rand       *rand.Rand
	affinity   []string
	broad      []string
}

// Option configures a Filter.
type Option func(*Filter)

// WithMaxResults caps the final list.
func WithMaxResults(n int) Option {
	return func(f *Filter) {
		if n > 0 {
			f.maxResults = n
		}
	}
}

// WithSampleSize sets the size of the generic sample tier.
func WithSampleSize(n int) Option {
	return func(f *Filter) {
		if n > 0 {
			f.sampleSize = n
		}
	}
}

// WithRand makes the sample tier draw from r instead of taking the most
// recent items. r is not safe for concurrent use, so a Filter built with it
// must not be shared between goroutines.
func WithRand(r *rand.Rand) Option {
	return func(f *Filter) { f.rand = r }
}

// New builds a Filter. tx may be nil, in which case category overlap only
// compares names.
func New(tx *taxonomy.Taxonomy, opts ...Option) *Filter {
	f := &Filter{
		taxonomy:   tx,
		maxResults: DefaultMaxResults,
		sampleSize: DefaultSampleSize,
		affinity:   entertainmentKeywords,
	}
	for _, opt := range opts {
		opt(f)
	}

	seen := make(map[string]struct{})
	for _, k := range f.affinity {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			f.broad = append(f.broad, k)
		}
	}
	if tx != nil {
		for _, k := range tx.Keywords("Entertainment") {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				f.broad = append(f.broad, k)
			}
		}
	}
	return f
}

// reader is a profile prepared for matching.
type reader struct {
	interests     []string
	sources       []string
	entertainment bool
}

func (f *Filter) prepare(p news.Profile) reader {
	r := reader{
		interests: lowerAll(p.Interests),
		sources:   lowerAll(p.Sources),
	}
	r.entertainment = f.hasAffinity(r.interests)
	return r
}

func (f *Filter) hasAffinity(interests []string) bool {
	for _, in := range interests {
		words := append(strings.Fields(in), in)
		for _, w := range words {
			for _, k := range f.affinity {
				if w == k {
					return true
				}
			}
		}
	}
	return false
}

// Score computes the relevance of item for p.
func (f *Filter) Score(item news.Categorized, p news.Profile) int {
	return f.score(item, f.prepare(p))
}

func (f *Filter) score(item news.Categorized, r reader) int {
	score := 0
	title := strings.ToLower(item.Title)
	content := strings.ToLower(item.Content)

	for _, cat := range item.Categories {
		lc := strings.ToLower(strings.TrimSpace(cat))
		if lc == "" {
			continue
		}
		for _, in := range r.interests {
			if strings.Contains(lc, in) || strings.Contains(in, lc) ||
				(f.taxonomy != nil && f.taxonomy.HasKeyword(cat, in)) {
				score += categoryPoints
				break
			}
		}
	}

	for _, in := range r.interests {
		if strings.Contains(title, in) {
			score += titlePoints
			break
		}
	}

	if score == 0 {
		for _, in := range r.interests {
			if strings.Contains(content, in) {
				score += contentPoints
				break
			}
		}
	}

	if src := strings.ToLower(strings.TrimSpace(item.Source)); src != "" {
		for _, s := range r.sources {
			if strings.Contains(src, s) || strings.Contains(s, src) {
				score += sourcePoints
				break
			}
		}
	}

	if r.entertainment && score == 0 {
		head := title + " " + strings.ToLower(strings.Join(item.Categories, " "))
		if containsAny(head, f.affinity) {
			score += affinityTitlePoints
		} else if containsAny(content, f.affinity) {
			score += affinityBodyPoints
		}
	}
	return score
}

// Filter scores items for p and returns at most maxResults of them, best
// first. Ties keep input order. When nothing scores, it falls back to a broad
// entertainment pass (entertainment-minded readers only) and then to a
// generic sample.
func (f *Filter) Filter(items []news.Categorized, p news.Profile) Result {
	r := f.prepare(p)

	var matched []news.Scored
	for _, it := range items {
		if s := f.score(it, r); s > 0 {
			matched = append(matched, news.Scored{Categorized: it.Clone(), RelevanceScore: s})
		}
	}
	if len(matched) > 0 {
		return Result{Tier: TierMatched, Items: f.rank(matched)}
	}

	if r.entertainment {
		var broad []news.Scored
		for _, it := range items {
			if containsAny(strings.ToLower(it.Title), f.broad) || containsAny(strings.ToLower(it.Content), f.broad) {
				broad = append(broad, news.Scored{Categorized: it.Clone(), RelevanceScore: broadPoints})
			}
		}
		if len(broad) > 0 {
			logger.Info("no direct matches, using broad entertainment pass",
				"reader", p.Name, "items", len(broad))
			return Result{Tier: TierEntertainment, Items: f.rank(broad)}
		}
	}

	if len(items) == 0 {
		logger.Warn("no items to select from", "reader", p.Name)
		return Result{Tier: TierNone}
	}

	sample := f.sample(items)
	logger.Info("no relevant items, using generic sample", "reader", p.Name, "items", len(sample))
	return Result{Tier: TierSample, Items: f.truncate(sample)}
}

func (f *Filter) rank(items []news.Scored) []news.Scored {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
	return f.truncate(items)
}

func (f *Filter) truncate(items []news.Scored) []news.Scored {
	if len(items) > f.maxResults {
		return items[:f.maxResults]
	}
	return items
}

// sample picks up to sampleSize items, either seeded-random or most recent first.
func (f *Filter) sample(items []news.Categorized) []news.Scored {
	n := f.sampleSize
	if n > len(items) {
		n = len(items)
	}

	idx := make([]int, len(items))
	if f.rand != nil {
		idx = f.rand.Perm(len(items))
	} else {
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return items[idx[a]].Published.After(items[idx[b]].Published)
		})
	}

	out := make([]news.Scored, 0, n)
	for _, i := range idx[:n] {
		out = append(out, news.Scored{Categorized: items[i].Clone()})
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
