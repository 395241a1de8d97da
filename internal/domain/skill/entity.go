package skill

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical is the lower-cased identifier every surface form of a skill resolves to.
type Canonical string

func NewCanonical(name string) Canonical {
	return Canonical(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func (c Canonical) String() string { return string(c) }

// Display returns the presentation form, e.g. "machine learning" -> "Machine Learning".
// A Caser keeps state, so one is built per call.
func Display(c Canonical) string {
	return cases.Title(language.English).String(string(c))
}

type Category string

const (
	CategoryTechnical Category = "technical"
	CategorySoft      Category = "soft"
)

func (c Category) Valid() bool {
	return c == CategoryTechnical || c == CategorySoft
}

type Set map[Canonical]struct{}

func NewSet(items ...Canonical) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s Set) Add(c Canonical) {
	if c == "" {
		return
	}
	s[c] = struct{}{}
}

func (s Set) Has(c Canonical) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Len() int { return len(s) }

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for c := range other {
		s[c] = struct{}{}
	}
}

func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for c := range s {
		if other.Has(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

func (s Set) Difference(other Set) Set {
	out := make(Set)
	for c := range s {
		if !other.Has(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

func (s Set) Sorted() []Canonical {
	out := make([]Canonical, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, string(c))
	}
	return out
}
