package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"TalentScout/internal/domain"
	"TalentScout/internal/match"
	"TalentScout/internal/ports"
)

// Evaluator runs one candidate/job scoring and applies the promotion rule.
// The score and rationale are persisted on the candidate regardless of
// outcome; the application row is the conditional side effect, created
// exactly once per promoting evaluation.
type Evaluator struct {
	scorer       ports.Scorer
	candidates   ports.CandidateRepository
	applications ports.ApplicationRepository
	threshold    float64
	logger       *slog.Logger
}

// NewEvaluator wires scoring with its persistence side effects. A threshold
// of zero falls back to the default promotion cutoff.
func NewEvaluator(scorer ports.Scorer, candidates ports.CandidateRepository,
	applications ports.ApplicationRepository, threshold float64, logger *slog.Logger) *Evaluator {
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	return &Evaluator{
		scorer:       scorer,
		candidates:   candidates,
		applications: applications,
		threshold:    threshold,
		logger:       logger,
	}
}

// Evaluate scores the candidate against the job, persists the outcome and
// promotes on threshold. It reports whether a promotion happened.
func (e *Evaluator) Evaluate(ctx context.Context, candidate *domain.Candidate, job *domain.Job) (bool, error) {
	result := e.scorer.Score(ctx, candidate, job)

	candidate.MatchScore = result.Score
	candidate.MatchFeedback = result.Feedback
	if err := e.candidates.Update(ctx, candidate); err != nil {
		return false, fmt.Errorf("persist match outcome for %s: %w", candidate.Email, err)
	}

	if result.Score < e.threshold {
		return false, nil
	}

	if err := e.applications.CreateApplication(ctx, candidate.ID, job.ID, domain.ApplicationMatched); err != nil {
		return false, fmt.Errorf("promote %s to job %d: %w", candidate.Email, job.ID, err)
	}

	if e.logger != nil {
		e.logger.Info("candidate promoted",
			"candidate", candidate.Email, "job", job.ID, "score", result.Score)
	}

	return true, nil
}
