package dto

import (
	"time"

	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/skill"
	"skill-gap/internal/usecase"
)

type SkillResponse struct {
	Name     string   `json:"name"`
	Display  string   `json:"display"`
	Category string   `json:"category"`
	Aliases  []string `json:"aliases"`
}

type ExtractSkillsResponse struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

type ClassificationResponse struct {
	Skill   string  `json:"skill"`
	Display string  `json:"display"`
	Score   float64 `json:"score"`
	Band    string  `json:"band"`
}

type ReportResponse struct {
	ResumeSkills    []string                 `json:"resume_skills"`
	JDSkills        []string                 `json:"jd_skills"`
	Overlap         []string                 `json:"overlap"`
	MissingInResume []string                 `json:"missing_in_resume"`
	ExtraInResume   []string                 `json:"extra_in_resume"`
	Matched         []string                 `json:"matched"`
	Partial         []string                 `json:"partial"`
	Missing         []string                 `json:"missing"`
	Recommended     []string                 `json:"recommended"`
	Classifications []ClassificationResponse `json:"classifications"`
	OverallScore    int                      `json:"overall_score"`
	Readiness       string                   `json:"readiness"`
	GeneratedAt     string                   `json:"generated_at"`
}

type AnalysisResponse struct {
	ID               string         `json:"id"`
	BatchID          string         `json:"batch_id,omitempty"`
	Source           string         `json:"source"`
	JDURL            string         `json:"jd_url,omitempty"`
	MatchThreshold   float64        `json:"match_threshold"`
	PartialThreshold float64        `json:"partial_threshold"`
	EmbeddingModel   string         `json:"embedding_model"`
	CreatedAt        string         `json:"created_at"`
	Report           ReportResponse `json:"report"`
}

type AnalysisSummaryResponse struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	OverallScore int    `json:"overall_score"`
	Readiness    string `json:"readiness"`
	CreatedAt    string `json:"created_at"`
}

type BatchItemResponse struct {
	Index    int               `json:"index"`
	Error    string            `json:"error,omitempty"`
	Analysis *AnalysisResponse `json:"analysis,omitempty"`
}

type BatchResponse struct {
	BatchID   string              `json:"batch_id"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}

func NewSkillResponses(items []usecase.SkillItem) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SkillResponse{
			Name:     string(it.Name),
			Display:  it.Display,
			Category: string(it.Category),
			Aliases:  it.Aliases,
		})
	}
	return out
}

func NewExtractSkillsResponse(s usecase.ExtractedSkills) ExtractSkillsResponse {
	return ExtractSkillsResponse{Technical: names(s.Technical), Soft: names(s.Soft)}
}

func NewAnalysisResponse(a analysis.Analysis) AnalysisResponse {
	r := a.Report
	bands := r.Bands()

	cls := make([]ClassificationResponse, 0, len(r.Classifications))
	for _, c := range r.Classifications {
		cls = append(cls, ClassificationResponse{
			Skill:   string(c.Skill),
			Display: skill.Display(c.Skill),
			Score:   c.Score,
			Band:    string(c.Band),
		})
	}

	out := AnalysisResponse{
		ID:               a.ID.String(),
		Source:           string(a.Source),
		JDURL:            a.JDURL,
		MatchThreshold:   a.Thresholds.Match,
		PartialThreshold: a.Thresholds.Partial,
		EmbeddingModel:   a.EmbeddingModel,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
		Report: ReportResponse{
			ResumeSkills:    names(r.ResumeSkills),
			JDSkills:        names(r.JDSkills),
			Overlap:         names(r.Overlap),
			MissingInResume: names(r.MissingInResume),
			ExtraInResume:   names(r.ExtraInResume),
			Matched:         names(bands.Matched),
			Partial:         names(bands.Partial),
			Missing:         names(bands.Missing),
			Recommended:     names(r.Recommended()),
			Classifications: cls,
			OverallScore:    r.OverallScore,
			Readiness:       string(r.Readiness()),
			GeneratedAt:     r.GeneratedAt.UTC().Format(time.RFC3339),
		},
	}
	if a.BatchID != nil {
		out.BatchID = a.BatchID.String()
	}
	return out
}

func NewAnalysisSummaries(items []analysis.Analysis) []AnalysisSummaryResponse {
	out := make([]AnalysisSummaryResponse, 0, len(items))
	for _, a := range items {
		out = append(out, AnalysisSummaryResponse{
			ID:           a.ID.String(),
			Source:       string(a.Source),
			OverallScore: a.Report.OverallScore,
			Readiness:    string(a.Report.Readiness()),
			CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func NewBatchResponse(res usecase.BatchResult) BatchResponse {
	out := BatchResponse{
		BatchID:   res.BatchID.String(),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Items:     make([]BatchItemResponse, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		item := BatchItemResponse{Index: it.Index}
		if it.Err != nil {
			item.Error = it.Err.Error()
		}
		if it.Analysis != nil {
			ar := NewAnalysisResponse(*it.Analysis)
			item.Analysis = &ar
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func names(in []skill.Canonical) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		out = append(out, string(c))
	}
	return out
}
