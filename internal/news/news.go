// Package news holds the record types that flow through the digest pipeline.
// Each stage produces a strict superset of the previous stage's record:
// Item → Categorized → Scored → Summarized.
package news

import "time"

// Item is a raw feed entry as produced by retrieval. Immutable once produced.
type Item struct {
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	Published        time.Time `json:"published"`
	Content          string    `json:"content"`
	Source           string    `json:"source"`
	FeedCategoryHint string    `json:"feed_category_hint,omitempty"`
}

// Categorized is an Item with 1-3 topic labels, most significant first.
// Categorized values may be shared across readers and must be treated as read-only.
type Categorized struct {
	Item
	Categories []string `json:"categories"`
}

// Primary returns the top label, or "General" when there is none.
func (c Categorized) Primary() string {
	if len(c.Categories) == 0 {
		return "General"
	}
	return c.Categories[0]
}

// Clone returns a copy that shares no mutable state with c.
func (c Categorized) Clone() Categorized {
	out := c
	out.Categories = append([]string(nil), c.Categories...)
	return out
}

// Scored is a reader-scoped copy of a Categorized item with its relevance score.
// A Scored value belongs to exactly one (item, reader, request) triple.
type Scored struct {
	Categorized
	RelevanceScore int `json:"relevance_score"`
}

// Summarized is a Scored item with a non-empty extractive summary.
type Summarized struct {
	Scored
	Summary string `json:"summary"`
}

// Profile is a reader's personalization settings. Read-only configuration.
type Profile struct {
	Name      string   `yaml:"name" json:"name" validate:"required"`
	Age       int      `yaml:"age" json:"age" validate:"gte=0"`
	Location  string   `yaml:"location" json:"location"`
	Interests []string `yaml:"interests" json:"interests" validate:"dive,required"`
	Sources   []string `yaml:"sources" json:"sources" validate:"dive,required"`
}

// TopInterests returns up to n interests in declared order.
func (p Profile) TopInterests(n int) []string {
	if len(p.Interests) <= n {
		return append([]string(nil), p.Interests...)
	}
	return append([]string(nil), p.Interests[:n]...)
}
