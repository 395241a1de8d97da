package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skill-gap/internal/domain/skill"
	"skill-gap/internal/extraction"
)

func TestSkillUsecase_ListSkills(t *testing.T) {
	reg := skill.MustNewRegistry(skill.DefaultTable())
	uc := NewSkillUsecase(extraction.New(reg))

	items := uc.ListSkills()
	assert.Len(t, items, reg.Len())
	assert.Equal(t, skill.Canonical("python"), items[0].Name)
	assert.Equal(t, "Python", items[0].Display)
	assert.Equal(t, skill.CategoryTechnical, items[0].Category)
	assert.Contains(t, items[0].Aliases, "py")
}

func TestSkillUsecase_ExtractSkills(t *testing.T) {
	uc := NewSkillUsecase(extraction.New(skill.MustNewRegistry(skill.DefaultTable())))

	got := uc.ExtractSkills("Python and SQL, strong communication")
	assert.Equal(t, []skill.Canonical{"python", "sql"}, got.Technical)
	assert.Equal(t, []skill.Canonical{"communication"}, got.Soft)

	empty := uc.ExtractSkills("")
	assert.Empty(t, empty.Technical)
	assert.Empty(t, empty.Soft)
}
