package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
)

func sampleReport() gap.Report {
	cls := []matching.Classification{
		{Skill: "machine learning", Score: 0.30, Band: matching.BandMissing},
		{Skill: "python", Score: 1, Band: matching.BandMatched},
		{Skill: "data visualization", Score: 0.61, Band: matching.BandPartial},
		{Skill: "sql", Score: 0.914, Band: matching.BandMatched},
	}
	return gap.Build(
		skill.NewSet("python", "sql", "data analysis"),
		skill.NewSet("python", "sql", "machine learning", "data visualization"),
		cls,
		time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC),
	)
}

func TestJSON_ShapeAndSchema(t *testing.T) {
	b, err := JSON(sampleReport())
	require.NoError(t, err)
	require.NoError(t, ValidateJSON(b))

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"resume_skills", "jd_skills", "missing_in_resume", "extra_in_resume", "overlap", "overall_score", "generated_at"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "2026-05-04T08:30:00Z", m["generated_at"])
	assert.EqualValues(t, 50, m["overall_score"])
	assert.Equal(t, "moderate", m["readiness"])
	assert.Equal(t, []any{"machine learning"}, m["recommended"])
}

func TestJSON_EmptyListsAreArrays(t *testing.T) {
	r := gap.Build(skill.NewSet(), skill.NewSet(), nil, time.Now())
	b, err := JSON(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"overlap": []`)
	assert.Contains(t, string(b), `"classifications": []`)
	require.NoError(t, ValidateJSON(b))
}

func TestValidateJSON_Rejects(t *testing.T) {
	err := ValidateJSON([]byte(`{"resume_skills": [], "overall_score": 140}`))
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "overall_score")
}

func TestValidateJSON_Malformed(t *testing.T) {
	assert.Error(t, ValidateJSON([]byte(`{not json`)))
}

func TestCSV_BandOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Skill,Status,Score",
		"Python,Matched,1.00",
		"Sql,Matched,0.91",
		"Data Visualization,Partial,0.61",
		"Machine Learning,Missing,0.30",
	}, lines)
}
