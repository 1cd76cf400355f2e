// Package profiles is the reader-profile registry: static configuration
// loaded from YAML, or the built-in personas when no file is present.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/digest/internal/news"
)

// ErrUnknownProfile is returned by Get for names not in the registry.
var ErrUnknownProfile = errors.New("profiles: unknown profile")

type file struct {
	Profiles []news.Profile `yaml:"profiles" validate:"required,min=1,dive"`
}

// Registry is a read-only set of profiles keyed by name.
type Registry struct {
	byName map[string]news.Profile
	names  []string
}

// New builds a Registry, validating every profile and rejecting duplicate
// names.
func New(list []news.Profile) (*Registry, error) {
	v := validator.New()
	r := &Registry{byName: make(map[string]news.Profile, len(list))}
	for _, p := range list {
		p.Name = strings.TrimSpace(p.Name)
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid profile %q: %w", p.Name, err)
		}
		key := strings.ToLower(p.Name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		r.byName[key] = p
		r.names = append(r.names, p.Name)
	}
	return r, nil
}

// Load reads profiles from path. A missing file yields the built-in personas.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid profiles %s: %w", path, err)
	}
	return New(f.Profiles)
}

// Get returns a copy of the named profile. Lookup ignores case.
func (r *Registry) Get(name string) (news.Profile, error) {
	p, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return news.Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	p.Interests = append([]string(nil), p.Interests...)
	p.Sources = append([]string(nil), p.Sources...)
	return p, nil
}

// Names lists profile names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns copies of every profile sorted by name.
func (r *Registry) All() []news.Profile {
	names := r.Names()
	sort.Strings(names)
	out := make([]news.Profile, 0, len(names))
	for _, n := range names {
		p, _ := r.Get(n)
		out = append(out, p)
	}
	return out
}
