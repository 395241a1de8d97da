package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"skill-gap/internal/domain/skill"
	"skill-gap/internal/nlp"
)

// Pass finds canonical skills in normalized text. Passes are independent and
// their results are unioned by the Extractor.
type Pass interface {
	Name() string
	Find(text string) skill.Set
}

type Extractor struct {
	reg    *skill.Registry
	passes []Pass
}

type Option func(*options)

type options struct {
	strict bool
	passes []Pass
}

// WithStrictSubstring makes the substring pass require a non-alphanumeric
// character (or text edge) on both sides of an alias. Off by default: the
// permissive pass accepts "tf" inside "netflix".
func WithStrictSubstring() Option {
	return func(o *options) { o.strict = true }
}

// WithPasses replaces the default phrase + substring passes.
func WithPasses(passes ...Pass) Option {
	return func(o *options) { o.passes = passes }
}

func New(reg *skill.Registry, opts ...Option) *Extractor {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	passes := o.passes
	if len(passes) == 0 {
		passes = []Pass{NewPhrasePass(reg), NewSubstringPass(reg, o.strict)}
	}
	return &Extractor{reg: reg, passes: passes}
}

func (e *Extractor) Registry() *skill.Registry { return e.reg }

// Extract returns the canonical skills mentioned in text. Text with no known
// skill, and text that is not valid UTF-8, yields an empty set.
func (e *Extractor) Extract(text string) skill.Set {
	out := make(skill.Set)
	if e == nil || !utf8.ValidString(text) {
		return out
	}
	normalized := nlp.Normalize(text)
	if normalized == "" {
		return out
	}

	for _, p := range e.passes {
		out.Union(p.Find(normalized))
	}
	return out
}

type Categorized struct {
	All       skill.Set
	Technical skill.Set
	Soft      skill.Set
}

func (e *Extractor) ExtractCategorized(text string) Categorized {
	all := e.Extract(text)
	tech, soft := skill.Categorize(e.reg, all)
	return Categorized{All: all, Technical: tech, Soft: soft}
}

type phrase struct {
	words []string
	skill skill.Canonical
}

// PhrasePass matches alias token sequences against the token stream of the text.
type PhrasePass struct {
	byFirst map[string][]phrase
}

func NewPhrasePass(reg *skill.Registry) *PhrasePass {
	p := &PhrasePass{byFirst: map[string][]phrase{}}
	for _, c := range reg.CanonicalSkills() {
		for _, form := range reg.SurfaceForms(c) {
			words := nlp.Words(form)
			if len(words) == 0 {
				continue
			}
			p.byFirst[words[0]] = append(p.byFirst[words[0]], phrase{words: words, skill: c})
		}
	}
	return p
}

func (p *PhrasePass) Name() string { return "phrase" }

func (p *PhrasePass) Find(text string) skill.Set {
	out := make(skill.Set)
	words := nlp.Words(text)
	for i, w := range words {
		for _, ph := range p.byFirst[w] {
			if out.Has(ph.skill) {
				continue
			}
			if hasPrefix(words[i:], ph.words) {
				out.Add(ph.skill)
			}
		}
	}
	return out
}

func hasPrefix(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i := range prefix {
		if words[i] != prefix[i] {
			return false
		}
	}
	return true
}

type alias struct {
	form  string
	skill skill.Canonical
}

// SubstringPass checks plain case-insensitive containment of every alias.
type SubstringPass struct {
	aliases []alias
	strict  bool
}

func NewSubstringPass(reg *skill.Registry, strict bool) *SubstringPass {
	p := &SubstringPass{strict: strict}
	for _, c := range reg.CanonicalSkills() {
		for _, form := range reg.SurfaceForms(c) {
			p.aliases = append(p.aliases, alias{form: form, skill: c})
		}
	}
	return p
}

func (p *SubstringPass) Name() string {
	if p.strict {
		return "substring_strict"
	}
	return "substring"
}

func (p *SubstringPass) Find(text string) skill.Set {
	out := make(skill.Set)
	lower := strings.ToLower(text)
	for _, a := range p.aliases {
		if out.Has(a.skill) {
			continue
		}
		if p.strict {
			if containsBounded(lower, a.form) {
				out.Add(a.skill)
			}
			continue
		}
		if strings.Contains(lower, a.form) {
			out.Add(a.skill)
		}
	}
	return out
}

func containsBounded(text, form string) bool {
	if form == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], form)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(form)
		if !isWordBefore(text, start) && !isWordAt(text, end) {
			return true
		}
		offset = start + 1
	}
}

func isWordBefore(text string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r)
}

func isWordAt(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
