package gap

import (
	"math"
	"time"

	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
)

type Readiness string

const (
	ReadinessWellAligned Readiness = "well_aligned"
	ReadinessModerate    Readiness = "moderate"
	ReadinessLow         Readiness = "low"
)

// Report is the outcome of one resume/job comparison. Skill lists are sorted.
// Overlap is exact label equality and is independent of the Matched band.
type Report struct {
	ResumeSkills    []skill.Canonical
	JDSkills        []skill.Canonical
	Overlap         []skill.Canonical
	MissingInResume []skill.Canonical
	ExtraInResume   []skill.Canonical
	Classifications []matching.Classification
	OverallScore    int
	GeneratedAt     time.Time
}

type Bands struct {
	Matched []skill.Canonical
	Partial []skill.Canonical
	Missing []skill.Canonical
}

func Build(resume, jd skill.Set, cls []matching.Classification, now time.Time) Report {
	copied := make([]matching.Classification, len(cls))
	copy(copied, cls)

	matched := 0
	for _, c := range cls {
		if c.Band == matching.BandMatched {
			matched++
		}
	}

	return Report{
		ResumeSkills:    resume.Sorted(),
		JDSkills:        jd.Sorted(),
		Overlap:         resume.Intersect(jd).Sorted(),
		MissingInResume: jd.Difference(resume).Sorted(),
		ExtraInResume:   resume.Difference(jd).Sorted(),
		Classifications: copied,
		OverallScore:    OverallScore(matched, jd.Len()),
		GeneratedAt:     now.UTC(),
	}
}

// OverallScore is round(100 * matched / total), 0 when total is 0.
func OverallScore(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}

func (r Report) Bands() Bands {
	b := Bands{
		Matched: []skill.Canonical{},
		Partial: []skill.Canonical{},
		Missing: []skill.Canonical{},
	}
	for _, c := range r.Classifications {
		switch c.Band {
		case matching.BandMatched:
			b.Matched = append(b.Matched, c.Skill)
		case matching.BandPartial:
			b.Partial = append(b.Partial, c.Skill)
		default:
			b.Missing = append(b.Missing, c.Skill)
		}
	}
	return b
}

func (r Report) Readiness() Readiness {
	switch {
	case r.OverallScore >= 75:
		return ReadinessWellAligned
	case r.OverallScore >= 50:
		return ReadinessModerate
	default:
		return ReadinessLow
	}
}

// Recommended lists the job skills to work on, in classification order.
func (r Report) Recommended() []skill.Canonical {
	return r.Bands().Missing
}
