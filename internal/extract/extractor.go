package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
	"TalentScout/internal/utils"
)

const (
	systemPrompt = "You are a recruitment assistant that analyzes resumes and job descriptions."

	instruction = `Extract the following information from this resume:
1. Years of experience (decimal number)
2. Education (highest degree and institution)
3. Current position
4. Current company
5. List of skills (technical and soft skills)

Return the information in JSON format with the following keys:
experience_years, education, current_position, current_company, skills (as a list of strings)

Resume:
`

	// Resumes are truncated before prompting to keep token usage bounded.
	maxResumeRunes = 4000

	temperature = 0.1
)

// Extractor derives a structured attribute set from raw resume text via the
// inference backend. Any backend failure or non-conforming response degrades
// to a fully-absent set; extraction never blocks candidate creation.
type Extractor struct {
	backend ports.InferenceBackend
	logger  *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// New wires the extractor with its inference backend.
func New(backend ports.InferenceBackend, logger *slog.Logger) *Extractor {
	return &Extractor{backend: backend, logger: logger}
}

// Extract prompts the backend with the fixed five-field instruction and
// parses its reply. The zero AttributeSet is the failure value.
func (e *Extractor) Extract(ctx context.Context, resumeText string) domain.AttributeSet {
	if e.backend == nil {
		return domain.AttributeSet{}
	}

	prompt := instruction + utils.TruncateRunes(resumeText, maxResumeRunes)

	raw, err := e.backend.Complete(ctx, systemPrompt, prompt, temperature)
	if err != nil {
		e.warn("resume extraction failed", "error", err)
		return domain.AttributeSet{}
	}

	attrs, err := parseResponse(raw)
	if err != nil {
		e.warn("resume extraction unparseable", "error", err)
		return domain.AttributeSet{}
	}

	return attrs
}

func parseResponse(raw string) (domain.AttributeSet, error) {
	var data struct {
		ExperienceYears any   `json:"experience_years"`
		Education       any   `json:"education"`
		CurrentPosition any   `json:"current_position"`
		CurrentCompany  any   `json:"current_company"`
		Skills          []any `json:"skills"`
	}

	if err := json.Unmarshal([]byte(utils.StripJSONFence(raw)), &data); err != nil {
		return domain.AttributeSet{}, err
	}

	attrs := domain.AttributeSet{
		Education:       coerceString(data.Education),
		CurrentPosition: coerceString(data.CurrentPosition),
		CurrentCompany:  coerceString(data.CurrentCompany),
	}

	if years, ok := coerceFloat(data.ExperienceYears); ok && years >= 0 {
		attrs.ExperienceYears = &years
	}

	for _, item := range data.Skills {
		if skill := coerceString(item); skill != "" {
			attrs.Skills = append(attrs.Skills, skill)
		}
	}

	return attrs, nil
}

// Models return numbers as floats, quoted strings, or null; accept all.
func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
