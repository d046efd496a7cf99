package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
	"TalentScout/internal/source"
)

// CandidateSummary is one reconciled record in a search run report.
type CandidateSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Promoted bool   `json:"promoted"`
}

// SourceSummary aggregates one provider's contribution to a run. Found counts
// raw records returned by the connector; New counts the subset that created a
// fresh candidate row; Failed counts records dropped by reconciliation or
// persistence errors.
type SourceSummary struct {
	Found      int                `json:"found"`
	New        int                `json:"new"`
	Failed     int                `json:"failed"`
	Candidates []CandidateSummary `json:"candidates"`
}

// SearchResult reports the outcome of one sourcing run across providers.
type SearchResult struct {
	RunID      string                    `json:"runId"`
	JobID      int64                     `json:"jobId"`
	TotalFound int                       `json:"totalFound"`
	Sources    map[string]*SourceSummary `json:"sources"`
}

// Orchestrator fans a job search out across provider connectors, reconciles
// the raw results into the candidate store and evaluates each reconciled
// candidate against the job. Providers fail independently: a connector error
// or timeout empties that provider's slot without touching its siblings.
type Orchestrator struct {
	jobs          ports.JobRepository
	registry      *source.Registry
	reconciler    ports.Reconciler
	evaluator     *Evaluator
	searchTimeout time.Duration
	logger        *slog.Logger
}

// NewOrchestrator wires the sourcing run. A non-positive timeout falls back
// to 15s per connector call.
func NewOrchestrator(jobs ports.JobRepository, registry *source.Registry,
	reconciler ports.Reconciler, evaluator *Evaluator, searchTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	if searchTimeout <= 0 {
		searchTimeout = 15 * time.Second
	}
	return &Orchestrator{
		jobs:          jobs,
		registry:      registry,
		reconciler:    reconciler,
		evaluator:     evaluator,
		searchTimeout: searchTimeout,
		logger:        logger,
	}
}

type sourceOutcome struct {
	name string
	raws []domain.RawCandidate
	err  error
}

// Run executes one sourcing run for the job across the requested providers.
// A missing job is the only hard failure; unknown and disabled providers are
// skipped, and a failing provider shows up in the result as an empty slot.
func (o *Orchestrator) Run(ctx context.Context, jobID int64, sources []string) (*SearchResult, error) {
	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %d: %w", jobID, err)
	}

	runID := uuid.NewString()
	connectors := o.selectConnectors(sources, runID)

	outcomes := make([]sourceOutcome, len(connectors))
	var wg sync.WaitGroup
	for i, connector := range connectors {
		wg.Add(1)
		go func(slot int, c source.Connector) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, o.searchTimeout)
			defer cancel()
			raws, searchErr := c.Search(callCtx, job)
			outcomes[slot] = sourceOutcome{name: c.Name(), raws: raws, err: searchErr}
		}(i, connector)
	}
	wg.Wait()

	result := &SearchResult{
		RunID:   runID,
		JobID:   jobID,
		Sources: map[string]*SourceSummary{},
	}

	for _, outcome := range outcomes {
		summary := &SourceSummary{Candidates: []CandidateSummary{}}
		result.Sources[outcome.name] = summary

		if outcome.err != nil {
			o.warn("provider search failed", "run", runID, "provider", outcome.name, "error", outcome.err)
			continue
		}

		summary.Found = len(outcome.raws)
		result.TotalFound += len(outcome.raws)

		for _, raw := range outcome.raws {
			o.absorb(ctx, raw, outcome.name, job, summary, runID)
		}
	}

	o.info("sourcing run finished", "run", runID, "job", jobID, "found", result.TotalFound)
	return result, nil
}

func (o *Orchestrator) selectConnectors(sources []string, runID string) []source.Connector {
	connectors := make([]source.Connector, 0, len(sources))
	for _, name := range sources {
		connector, err := o.registry.Resolve(name)
		if err != nil {
			o.warn("skipping unknown provider", "run", runID, "provider", name)
			continue
		}
		if !connector.Enabled() {
			o.info("skipping disabled provider", "run", runID, "provider", connector.Name())
			continue
		}
		connectors = append(connectors, connector)
	}
	return connectors
}

// absorb reconciles and evaluates one raw record. Failures are contained to
// the record: they bump the Failed counter and never abort the run.
func (o *Orchestrator) absorb(ctx context.Context, raw domain.RawCandidate, providerName string,
	job *domain.Job, summary *SourceSummary, runID string) {
	candidate, created, err := o.reconciler.Reconcile(ctx, raw, providerName)
	if err != nil {
		summary.Failed++
		o.warn("record dropped", "run", runID, "provider", providerName, "email", raw.Email, "error", err)
		return
	}
	if created {
		summary.New++
	}

	promoted := false
	if o.evaluator != nil {
		promoted, err = o.evaluator.Evaluate(ctx, candidate, job)
		if err != nil {
			summary.Failed++
			o.warn("evaluation failed", "run", runID, "provider", providerName, "email", candidate.Email, "error", err)
			return
		}
	}

	summary.Candidates = append(summary.Candidates, CandidateSummary{
		ID:       candidate.ID,
		Name:     candidate.FullName(),
		Email:    candidate.Email,
		Promoted: promoted,
	})
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
