// Package taxonomy holds the fixed topic table used for classification and
// the per-category icons used when rendering. A Taxonomy is built once at
// startup and never mutated afterwards.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultIcon is used for categories without a configured emoji.
const DefaultIcon = "📄"

// Category is one topic with its keyword set.
type Category struct {
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// File is the YAML layout of a taxonomy file.
type File struct {
	Categories  []Category        `yaml:"categories" validate:"required,min=1,dive"`
	Emoji       map[string]string `yaml:"emoji"`
	DefaultIcon string            `yaml:"default_icon"`
}

// Taxonomy is an ordered, immutable category → keywords table.
type Taxonomy struct {
	categories  []Category
	index       map[string]int
	keywordSets []map[string]struct{}
	emoji       map[string]string
	defaultIcon string
}

// New builds a Taxonomy. Keywords are lowercased and trimmed; duplicate
// category names are rejected.
func New(categories []Category, emoji map[string]string, defaultIcon string) (*Taxonomy, error) {
	t := &Taxonomy{
		index:       make(map[string]int, len(categories)),
		emoji:       make(map[string]string, len(emoji)),
		defaultIcon: defaultIcon,
	}
	if t.defaultIcon == "" {
		t.defaultIcon = DefaultIcon
	}

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy: category with empty name")
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", name)
		}

		kws := make([]string, 0, len(c.Keywords))
		set := make(map[string]struct{}, len(c.Keywords))
		for _, k := range c.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, seen := set[k]; seen {
				continue
			}
			set[k] = struct{}{}
			kws = append(kws, k)
		}

		t.index[name] = len(t.categories)
		t.categories = append(t.categories, Category{Name: name, Keywords: kws})
		t.keywordSets = append(t.keywordSets, set)
	}

	for k, v := range emoji {
		t.emoji[k] = v
	}
	return t, nil
}

// Load reads a taxonomy YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid taxonomy %s: %w", path, err)
	}

	emoji := defaultEmoji()
	for k, v := range f.Emoji {
		emoji[k] = v
	}
	return New(f.Categories, emoji, f.DefaultIcon)
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int { return len(t.categories) }

// Names returns category names in table order.
func (t *Taxonomy) Names() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Name
	}
	return out
}

// Each calls fn for every category in table order. fn must not retain or
// modify keywords.
func (t *Taxonomy) Each(fn func(name string, keywords []string)) {
	for _, c := range t.categories {
		fn(c.Name, c.Keywords)
	}
}

// Keywords returns a copy of the keyword list for name.
func (t *Taxonomy) Keywords(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return append([]string(nil), t.categories[i].Keywords...)
}

// HasKeyword reports whether kw (case-insensitive) is a keyword of category name.
func (t *Taxonomy) HasKeyword(name, kw string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	_, found := t.keywordSets[i][strings.ToLower(strings.TrimSpace(kw))]
	return found
}

// Icon returns the emoji for a category or the default icon.
func (t *Taxonomy) Icon(name string) string {
	if e, ok := t.emoji[name]; ok && e != "" {
		return e
	}
	return t.defaultIcon
}
