package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
	"TalentScout/internal/utils"
)

// DefaultThreshold is the promotion cutoff: candidates scoring at or above
// it get a job application row.
const DefaultThreshold = 0.7

const (
	systemPrompt = "You are a recruitment assistant that analyzes resumes and job descriptions."

	temperature = 0.1
)

// Scorer evaluates one candidate against one job through the inference
// backend. Failures degrade to a zero score with a diagnostic feedback
// string; scoring never blocks or aborts the pipeline.
type Scorer struct {
	backend ports.InferenceBackend
	logger  *slog.Logger
}

var _ ports.Scorer = (*Scorer)(nil)

// New wires the scorer with its inference backend.
func New(backend ports.InferenceBackend, logger *slog.Logger) *Scorer {
	return &Scorer{backend: backend, logger: logger}
}

// Score serializes both summaries into the fixed evaluation prompt and
// parses the bounded result out of the reply.
func (s *Scorer) Score(ctx context.Context, candidate *domain.Candidate, job *domain.Job) domain.MatchResult {
	if s.backend == nil {
		return domain.MatchResult{Feedback: "scoring skipped: inference backend not configured"}
	}

	raw, err := s.backend.Complete(ctx, systemPrompt, buildPrompt(candidate, job), temperature)
	if err != nil {
		s.warn("match scoring failed", "candidate", candidate.Email, "job", job.ID, "error", err)
		return domain.MatchResult{Feedback: fmt.Sprintf("error evaluating candidate: %v", err)}
	}

	result, err := parseResponse(raw)
	if err != nil {
		s.warn("match scoring unparseable", "candidate", candidate.Email, "job", job.ID, "error", err)
		return domain.MatchResult{Feedback: fmt.Sprintf("unparseable evaluation: %v", err)}
	}

	return result
}

func buildPrompt(candidate *domain.Candidate, job *domain.Job) string {
	skills := make([]string, 0, len(candidate.Skills))
	for _, skill := range candidate.Skills {
		skills = append(skills, skill.Name)
	}

	experience := "unknown"
	if candidate.ExperienceYears != nil {
		experience = strconv.FormatFloat(*candidate.ExperienceYears, 'f', -1, 64)
	}

	var b strings.Builder
	b.WriteString("Evaluate how well the candidate matches the job requirements.\n\n")
	fmt.Fprintf(&b, "Candidate: %s\n", candidate.FullName())
	fmt.Fprintf(&b, "Experience: %s years\n", experience)
	fmt.Fprintf(&b, "Education: %s\n", candidate.Education)
	fmt.Fprintf(&b, "Current Position: %s\n", candidate.CurrentPosition)
	fmt.Fprintf(&b, "Current Company: %s\n", candidate.CurrentCompany)
	fmt.Fprintf(&b, "Skills: %s\n\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "Job Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	fmt.Fprintf(&b, "Requirements: %s\n", job.Requirements)
	fmt.Fprintf(&b, "Location: %s\n", job.Location)
	fmt.Fprintf(&b, "Job Type: %s\n\n", job.JobType)
	b.WriteString("Rate the match on a scale from 0.0 to 1.0, where 1.0 is a perfect match.\n")
	b.WriteString("Provide feedback explaining why the candidate is or is not a good match.\n\n")
	b.WriteString("Return your evaluation in JSON format with the following keys:\n")
	b.WriteString("score (a decimal number between 0.0 and 1.0), feedback (a string with your analysis)")

	return b.String()
}

func parseResponse(raw string) (domain.MatchResult, error) {
	var data struct {
		Score    any    `json:"score"`
		Feedback string `json:"feedback"`
	}

	if err := json.Unmarshal([]byte(utils.StripJSONFence(raw)), &data); err != nil {
		return domain.MatchResult{}, err
	}

	score, err := coerceScore(data.Score)
	if err != nil {
		return domain.MatchResult{}, err
	}

	return domain.MatchResult{
		Score:    domain.ClampScore(score),
		Feedback: strings.TrimSpace(data.Feedback),
	}, nil
}

func coerceScore(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("score field missing or non-numeric")
	}
}

func (s *Scorer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
