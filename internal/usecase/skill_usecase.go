package usecase

import (
	"skill-gap/internal/domain/skill"
	"skill-gap/internal/extraction"
)

type SkillItem struct {
	Name     skill.Canonical
	Display  string
	Category skill.Category
	Aliases  []string
}

type ExtractedSkills struct {
	Technical []skill.Canonical
	Soft      []skill.Canonical
}

type SkillUsecase interface {
	ListSkills() []SkillItem
	ExtractSkills(text string) ExtractedSkills
}

type Skill struct {
	extractor *extraction.Extractor
}

func NewSkillUsecase(extractor *extraction.Extractor) *Skill {
	return &Skill{extractor: extractor}
}

func (u *Skill) ListSkills() []SkillItem {
	reg := u.extractor.Registry()
	names := reg.CanonicalSkills()

	out := make([]SkillItem, 0, len(names))
	for _, c := range names {
		cat, _ := reg.Category(c)
		out = append(out, SkillItem{
			Name:     c,
			Display:  skill.Display(c),
			Category: cat,
			Aliases:  reg.SurfaceForms(c),
		})
	}
	return out
}

func (u *Skill) ExtractSkills(text string) ExtractedSkills {
	res := u.extractor.ExtractCategorized(text)
	return ExtractedSkills{
		Technical: res.Technical.Sorted(),
		Soft:      res.Soft.Sorted(),
	}
}
