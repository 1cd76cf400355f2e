// Package categorize assigns ordered topic labels to feed items by weighted
// keyword counting against a taxonomy.
package categorize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/metrics"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/taxonomy"
	"github.com/deusflow/digest/internal/textutil"
)

const (
	// GeneralLabel is used when neither keywords nor a feed hint apply.
	GeneralLabel = "General"
	// EntertainmentLabel gets forced to the front for entertainment feeds.
	EntertainmentLabel = "Entertainment"

	titleWeight   = 5
	hintBoost     = 3
	hintBaseScore = 2
	minScore      = 2
	maxLabels     = 3
)

// ErrNoTaxonomy is reported when the categorizer was built without a taxonomy.
var ErrNoTaxonomy = errors.New("categorize: no taxonomy configured")

// Categorizer labels items. It holds no per-item state and is safe for
// concurrent use.
type Categorizer struct {
	taxonomy *taxonomy.Taxonomy
	metrics  *metrics.Metrics
}

// New returns a Categorizer over tx. m may be nil.
func New(tx *taxonomy.Taxonomy, m *metrics.Metrics) *Categorizer {
	if m == nil {
		m = metrics.Global
	}
	return &Categorizer{taxonomy: tx, metrics: m}
}

type scored struct {
	name  string
	score int
}

// Categorize returns item with 1-3 labels. It never fails: on any internal
// error the item is labeled with its feed hint or "General".
func (c *Categorizer) Categorize(item news.Item) (out news.Categorized) {
	out = news.Categorized{Item: item}

	defer func() {
		if r := recover(); r != nil {
			c.fallback(&out, fmt.Errorf("categorize: panic: %v", r))
		}
	}()

	labels, err := c.classify(item)
	if err != nil {
		c.fallback(&out, err)
		return out
	}

	out.Categories = labels
	c.metrics.IncrementItemsCategorized()
	return out
}

// CategorizeAll labels every item, preserving input order.
func (c *Categorizer) CategorizeAll(items []news.Item) []news.Categorized {
	out := make([]news.Categorized, 0, len(items))
	for _, it := range items {
		out = append(out, c.Categorize(it))
	}
	logger.Debug("categorized items", "count", len(out))
	return out
}

func (c *Categorizer) fallback(out *news.Categorized, err error) {
	label := strings.TrimSpace(out.FeedCategoryHint)
	if label == "" {
		label = GeneralLabel
	}
	logger.Warn("categorization failed, using fallback label",
		"title", out.Title, "label", label, "error", err)
	c.metrics.IncrementCategorizeFallbacks()
	out.Categories = []string{label}
}

func (c *Categorizer) classify(item news.Item) ([]string, error) {
	if c.taxonomy == nil {
		return nil, ErrNoTaxonomy
	}

	scores := c.keywordScores(item)
	entertainmentMatched := hasScore(scores, EntertainmentLabel)

	hint := strings.TrimSpace(item.FeedCategoryHint)
	if hint != "" {
		scores = applyHint(scores, hint)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	labels := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.score >= minScore {
			labels = append(labels, s.name)
		}
	}

	if len(labels) == 0 {
		if hint != "" {
			labels = []string{hint}
		} else {
			labels = []string{GeneralLabel}
		}
	}

	// entertainment feeds lead with Entertainment unless keywords already placed it
	if hint == EntertainmentLabel && !entertainmentMatched {
		labels = append([]string{EntertainmentLabel}, remove(labels, EntertainmentLabel)...)
	}

	if len(labels) > maxLabels {
		labels = labels[:maxLabels]
	}
	return labels, nil
}

// keywordScores returns the non-zero keyword score of every taxonomy
// category, in taxonomy order.
func (c *Categorizer) keywordScores(item news.Item) []scored {
	text := textutil.Normalize(item.Title + " " + item.Content)
	title := textutil.Normalize(item.Title)

	var scores []scored
	c.taxonomy.Each(func(name string, keywords []string) {
		total := 0
		for _, kw := range keywords {
			n := strings.Count(text, kw)
			if n == 0 {
				continue
			}
			// a title hit weights every occurrence, it does not add a second count
			if title != "" && strings.Contains(title, kw) {
				total += titleWeight * n
			} else {
				total += n
			}
		}
		if total > 0 {
			scores = append(scores, scored{name: name, score: total})
		}
	})
	return scores
}

// applyHint boosts every scored category related to the hint, or adds the
// hint itself with a base score when nothing relates.
func applyHint(scores []scored, hint string) []scored {
	h := strings.ToLower(hint)
	matched := false
	present := false
	for i := range scores {
		name := strings.ToLower(scores[i].name)
		if strings.Contains(h, name) || strings.Contains(name, h) {
			scores[i].score += hintBoost
			matched = true
		}
		if scores[i].name == hint {
			present = true
		}
	}
	if !matched && !present {
		scores = append(scores, scored{name: hint, score: hintBaseScore})
	}
	return scores
}

func hasScore(scores []scored, name string) bool {
	for _, s := range scores {
		if s.name == name {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
