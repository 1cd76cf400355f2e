// Package newsletter renders summarized items into the reader's digest
// document: a markdown newsletter grouped into topic sections.
package newsletter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/taxonomy"
)

const (
	// DefaultSectionCap is the maximum number of items rendered per section.
	DefaultSectionCap = 4

	dateLayout     = "January 02, 2006"
	introInterests = 3
	divider        = "---"
)

// Placement decides which sections an item is rendered in.
type Placement string

const (
	// PlacementPrimary puts each item only under its first category.
	PlacementPrimary Placement = "primary"
	// PlacementAll puts each item under every category it carries.
	PlacementAll Placement = "all"
)

// ParsePlacement maps a config value to a Placement. Unknown values are
// rejected.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlacementPrimary:
		return PlacementPrimary, nil
	case PlacementAll:
		return PlacementAll, nil
	}
	return "", fmt.Errorf("unknown section placement %q", s)
}

// Composer groups items by category and renders the document.
type Composer struct {
	icons      *taxonomy.Taxonomy
	sectionCap int
	placement  Placement
}

// Option configures a Composer.
type Option func(*Composer)

// WithSectionCap overrides DefaultSectionCap.
func WithSectionCap(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.sectionCap = n
		}
	}
}

// WithPlacement selects how multi-label items are placed.
func WithPlacement(p Placement) Option {
	return func(c *Composer) {
		if p != "" {
			c.placement = p
		}
	}
}

// New returns a Composer that takes section icons from tx.
func New(tx *taxonomy.Taxonomy, opts ...Option) *Composer {
	if tx == nil {
		tx = taxonomy.Default()
	}
	c := &Composer{icons: tx, sectionCap: DefaultSectionCap, placement: PlacementPrimary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Section is one topic group of the document.
type Section struct {
	Category string
	Items    []news.Summarized
}

// Sections returns the category groups in render order: larger groups first,
// ties in order of first appearance. Items keep their input order and are
// not capped.
func (c *Composer) Sections(items []news.Summarized) []Section {
	var order []*Section
	index := make(map[string]*Section)

	for _, it := range items {
		for _, cat := range c.placements(it) {
			s, ok := index[cat]
			if !ok {
				s = &Section{Category: cat}
				index[cat] = s
				order = append(order, s)
			}
			s.Items = append(s.Items, it)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].Items) > len(order[j].Items)
	})

	out := make([]Section, len(order))
	for i, s := range order {
		out[i] = *s
	}
	return out
}

func (c *Composer) placements(it news.Summarized) []string {
	if c.placement != PlacementAll || len(it.Categories) == 0 {
		return []string{it.Primary()}
	}
	seen := make(map[string]bool, len(it.Categories))
	out := make([]string, 0, len(it.Categories))
	for _, cat := range it.Categories {
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// Compose renders the markdown newsletter for p. items are expected in
// relevance order.
func (c *Composer) Compose(items []news.Summarized, p news.Profile, generatedAt time.Time) string {
	var b strings.Builder
	interests := interestsText(p)

	fmt.Fprintf(&b, "# %s's Personalized Newsletter\n", p.Name)
	fmt.Fprintf(&b, "### %s\n\n%s\n\n", generatedAt.Format(dateLayout), divider)

	b.WriteString("## Today's Highlights\n")
	fmt.Fprintf(&b, "Welcome to your personalized newsletter, %s. ", p.Name)
	if len(items) == 0 {
		fmt.Fprintf(&b, "We couldn't find stories matching your interests in %s today.\n\n%s\n\n", interests, divider)
	} else {
		fmt.Fprintf(&b, "Here are today's top stories curated just for you based on your interests in %s, and more.\n\n%s\n\n", interests, divider)
	}

	for _, s := range c.Sections(items) {
		fmt.Fprintf(&b, "## %s %s\n\n", c.icons.Icon(s.Category), s.Category)

		shown := s.Items
		if len(shown) > c.sectionCap {
			shown = shown[:c.sectionCap]
		}
		for i, it := range shown {
			writeItem(&b, it)
			if i < len(shown)-1 {
				fmt.Fprintf(&b, "%s\n\n", divider)
			}
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Thanks for Reading!\n")
	fmt.Fprintf(&b, "This newsletter was generated specifically for %s based on personal interests including %s.\n\n", p.Name, interests)
	b.WriteString("Check back tomorrow for more personalized news.\n")
	return b.String()
}

var (
	// brackets and backslashes in a title would end the link text early
	linkText = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	// spaces, parentheses and angle brackets would end the destination early
	linkDest = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "<", "%3C", ">", "%3E")
)

func writeItem(b *strings.Builder, it news.Summarized) {
	published := "Recent"
	if !it.Published.IsZero() {
		published = it.Published.Format(dateLayout)
	}
	fmt.Fprintf(b, "### [%s](%s)\n", linkText.Replace(it.Title), linkDest.Replace(it.Link))
	fmt.Fprintf(b, "*%s - %s*\n\n", it.Source, published)
	fmt.Fprintf(b, "%s\n\n", it.Summary)
}

func interestsText(p news.Profile) string {
	top := p.TopInterests(introInterests)
	if len(top) == 0 {
		return "the news"
	}
	return strings.Join(top, ", ")
}
