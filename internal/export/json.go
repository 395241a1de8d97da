// Package export renders gap reports for download.
package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
)

//go:embed report.schema.json
var reportSchema string

// Document is the wire shape of a report. Exporters and the API share it.
type Document struct {
	ResumeSkills    []string                  `json:"resume_skills"`
	JDSkills        []string                  `json:"jd_skills"`
	MissingInResume []string                  `json:"missing_in_resume"`
	ExtraInResume   []string                  `json:"extra_in_resume"`
	Overlap         []string                  `json:"overlap"`
	OverallScore    int                       `json:"overall_score"`
	GeneratedAt     string                    `json:"generated_at"`
	Matched         []string                  `json:"matched"`
	Partial         []string                  `json:"partial"`
	Missing         []string                  `json:"missing"`
	Readiness       gap.Readiness             `json:"readiness"`
	Recommended     []string                  `json:"recommended"`
	Classifications []matching.Classification `json:"classifications"`
}

func FromReport(r gap.Report) Document {
	bands := r.Bands()
	cls := r.Classifications
	if cls == nil {
		cls = []matching.Classification{}
	}
	return Document{
		ResumeSkills:    names(r.ResumeSkills),
		JDSkills:        names(r.JDSkills),
		MissingInResume: names(r.MissingInResume),
		ExtraInResume:   names(r.ExtraInResume),
		Overlap:         names(r.Overlap),
		OverallScore:    r.OverallScore,
		GeneratedAt:     r.GeneratedAt.UTC().Format(time.RFC3339),
		Matched:         names(bands.Matched),
		Partial:         names(bands.Partial),
		Missing:         names(bands.Missing),
		Readiness:       r.Readiness(),
		Recommended:     names(r.Recommended()),
		Classifications: cls,
	}
}

// JSON renders the report as indented JSON.
func JSON(r gap.Report) ([]byte, error) {
	b, err := json.MarshalIndent(FromReport(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}

type FieldError struct {
	Field   string
	Message string
}

type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("report validation failed:")
	for i, e := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, e.Field, e.Message))
	}
	return sb.String()
}

// ValidateJSON checks an exported document against the embedded report schema.
func ValidateJSON(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(reportSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

func names(cs []skill.Canonical) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
