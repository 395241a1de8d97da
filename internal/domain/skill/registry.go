package skill

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankCanonical     = errors.New("blank canonical skill name")
	ErrEmptyAliasSet      = errors.New("empty alias set")
	ErrDuplicateCanonical = errors.New("duplicate canonical skill")
)

// Registry maps canonical skills to their surface forms. It is built once and
// never mutated, so a single instance can be shared by every goroutine.
type Registry struct {
	order    []Canonical
	forms    map[Canonical][]string
	category map[Canonical]Category
}

func NewRegistry(table Table) (*Registry, error) {
	r := &Registry{
		order:    make([]Canonical, 0, len(table)),
		forms:    make(map[Canonical][]string, len(table)),
		category: make(map[Canonical]Category, len(table)),
	}

	for i, e := range table {
		c := NewCanonical(e.Canonical)
		if c == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrBlankCanonical)
		}
		if _, ok := r.forms[c]; ok {
			return nil, fmt.Errorf("%q: %w", c, ErrDuplicateCanonical)
		}

		forms := make([]string, 0, len(e.Aliases)+1)
		seen := make(map[string]struct{}, len(e.Aliases)+1)
		for _, a := range e.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" {
				continue
			}
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			forms = append(forms, a)
		}
		if len(forms) == 0 {
			return nil, fmt.Errorf("%q: %w", c, ErrEmptyAliasSet)
		}
		if _, ok := seen[string(c)]; !ok {
			forms = append([]string{string(c)}, forms...)
		}

		cat := e.Category
		if cat == "" {
			cat = CategoryTechnical
		}
		if !cat.Valid() {
			return nil, fmt.Errorf("%q: unknown category %q", c, cat)
		}

		r.order = append(r.order, c)
		r.forms[c] = forms
		r.category[c] = cat
	}

	return r, nil
}

// MustNewRegistry panics when the table is invalid. Intended for built-in tables.
func MustNewRegistry(table Table) *Registry {
	r, err := NewRegistry(table)
	if err != nil {
		panic(err)
	}
	return r
}

// CanonicalSkills returns the skills in table order.
func (r *Registry) CanonicalSkills() []Canonical {
	out := make([]Canonical, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) SurfaceForms(c Canonical) []string {
	forms := r.forms[c]
	out := make([]string, len(forms))
	copy(out, forms)
	return out
}

func (r *Registry) Has(c Canonical) bool {
	_, ok := r.forms[c]
	return ok
}

// Category reports the category a skill was registered under. Unknown skills
// report false.
func (r *Registry) Category(c Canonical) (Category, bool) {
	cat, ok := r.category[c]
	return cat, ok
}

func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) IsTechnical(c Canonical) bool {
	return r.category[c] == CategoryTechnical
}

func (r *Registry) IsSoft(c Canonical) bool {
	return r.category[c] == CategorySoft
}
