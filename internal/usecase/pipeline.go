package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
)

// PipelineDeps wires all driven adapters into the recruitment coordinator.
type PipelineDeps struct {
	Candidates   ports.CandidateRepository
	Jobs         ports.JobRepository
	Decoder      ports.Decoder
	Extractor    ports.Extractor
	Orchestrator *Orchestrator
	Evaluator    *Evaluator
	Notifier     ports.Notifier
	Dispatcher   ports.Dispatcher
	Logger       *slog.Logger
}

// Pipeline coordinates the candidate lifecycle: direct applications, resume
// enrichment, external sourcing runs, match sweeps and candidate outreach.
type Pipeline struct {
	candidates   ports.CandidateRepository
	jobs         ports.JobRepository
	decoder      ports.Decoder
	extractor    ports.Extractor
	orchestrator *Orchestrator
	evaluator    *Evaluator
	notifier     ports.Notifier
	dispatcher   ports.Dispatcher
	logger       *slog.Logger
}

// NewPipeline constructs the coordinator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		candidates:   deps.Candidates,
		jobs:         deps.Jobs,
		decoder:      deps.Decoder,
		extractor:    deps.Extractor,
		orchestrator: deps.Orchestrator,
		evaluator:    deps.Evaluator,
		notifier:     deps.Notifier,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// ApplicantInput carries a direct application. ResumePath points at an
// already-stored document; an empty path skips resume enrichment.
type ApplicantInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	ResumePath string
	ResumeType string
}

// RegisterApplicant creates the candidate row synchronously and hands resume
// enrichment to the background dispatcher. The caller gets the bare candidate
// back immediately; extracted attributes appear on a later read. A duplicate
// email surfaces as a conflict.
func (p *Pipeline) RegisterApplicant(ctx context.Context, in ApplicantInput) (*domain.Candidate, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("applicant has no email")
	}

	candidate := &domain.Candidate{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      email,
		Phone:      in.Phone,
		ResumePath: in.ResumePath,
		Sources:    []string{domain.SourceApplied},
		Status:     domain.StatusNew,
	}

	created, err := p.candidates.Create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("register applicant %s: %w", email, err)
	}

	if in.ResumePath != "" {
		id, resumeType := created.ID, in.ResumeType
		accepted := p.dispatcher != nil && p.dispatcher.Submit(func(taskCtx context.Context) {
			if procErr := p.processResume(taskCtx, id, resumeType); procErr != nil {
				p.warn("resume processing failed", "candidate", id, "error", procErr)
			}
		})
		if !accepted {
			p.warn("resume processing not scheduled", "candidate", created.ID)
		}
	}

	p.info("applicant registered", "candidate", created.ID, "email", created.Email)
	return created, nil
}

// ProcessResume decodes the candidate's stored resume, extracts structured
// attributes and merges them under the fill-if-absent policy.
func (p *Pipeline) ProcessResume(ctx context.Context, candidateID int64) error {
	return p.processResume(ctx, candidateID, "")
}

func (p *Pipeline) processResume(ctx context.Context, candidateID int64, declaredType string) error {
	candidate, err := p.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate %d: %w", candidateID, err)
	}
	if candidate.ResumePath == "" {
		return nil
	}

	text := p.decoder.Decode(ctx, candidate.ResumePath, declaredType)
	attrs := p.extractor.Extract(ctx, text)
	if attrs.IsEmpty() {
		p.warn("resume yielded no attributes", "candidate", candidateID)
		return nil
	}

	attrs.ApplyTo(candidate)
	if err := p.candidates.Update(ctx, candidate); err != nil {
		return fmt.Errorf("persist extracted attributes for %d: %w", candidateID, err)
	}

	p.info("resume processed", "candidate", candidateID)
	return nil
}

// MatchAllCandidates scores every stored candidate against the job and
// applies the promotion rule. One candidate's scoring or persistence failure
// is logged and skipped; the sweep continues. It reports how many candidates
// were promoted.
func (p *Pipeline) MatchAllCandidates(ctx context.Context, jobID int64) (int, error) {
	job, err := p.jobs.GetJob(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("load job %d: %w", jobID, err)
	}

	candidates, err := p.candidates.List(ctx, ports.CandidateFilter{})
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}

	matched := 0
	for i := range candidates {
		promoted, evalErr := p.evaluator.Evaluate(ctx, &candidates[i], job)
		if evalErr != nil {
			p.warn("sweep evaluation failed", "candidate", candidates[i].Email, "job", jobID, "error", evalErr)
			continue
		}
		if promoted {
			matched++
		}
	}

	p.info("match sweep finished", "job", jobID, "candidates", len(candidates), "matched", matched)
	return matched, nil
}

// MatchAllCandidatesDetached runs the sweep on the background dispatcher. It
// reports whether the task was accepted; the outcome lands in the store.
func (p *Pipeline) MatchAllCandidatesDetached(jobID int64) bool {
	if p.dispatcher == nil {
		return false
	}
	return p.dispatcher.Submit(func(taskCtx context.Context) {
		if _, err := p.MatchAllCandidates(taskCtx, jobID); err != nil {
			p.warn("detached match sweep failed", "job", jobID, "error", err)
		}
	})
}

// SourceCandidates runs one external sourcing run for the job.
func (p *Pipeline) SourceCandidates(ctx context.Context, jobID int64, sources []string) (*SearchResult, error) {
	return p.orchestrator.Run(ctx, jobID, sources)
}

// SourceCandidatesDetached schedules a sourcing run on the dispatcher.
func (p *Pipeline) SourceCandidatesDetached(jobID int64, sources []string) bool {
	if p.dispatcher == nil {
		return false
	}
	return p.dispatcher.Submit(func(taskCtx context.Context) {
		if _, err := p.orchestrator.Run(taskCtx, jobID, sources); err != nil {
			p.warn("detached sourcing run failed", "job", jobID, "error", err)
		}
	})
}

// CreateJob persists a new open position.
func (p *Pipeline) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if strings.TrimSpace(job.Title) == "" {
		return nil, fmt.Errorf("job has no title")
	}
	created, err := p.jobs.CreateJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	p.info("job created", "job", created.ID, "title", created.Title)
	return created, nil
}

// GetJob loads one position.
func (p *Pipeline) GetJob(ctx context.Context, jobID int64) (*domain.Job, error) {
	job, err := p.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job %d: %w", jobID, err)
	}
	return job, nil
}

// UpdateJob persists changes to an existing position.
func (p *Pipeline) UpdateJob(ctx context.Context, job *domain.Job) error {
	if err := p.jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return nil
}

// UpdateCandidateStatus moves a candidate through the hiring funnel.
func (p *Pipeline) UpdateCandidateStatus(ctx context.Context, candidateID int64, status domain.CandidateStatus) (*domain.Candidate, error) {
	switch status {
	case domain.StatusNew, domain.StatusContacted, domain.StatusInterviewScheduled,
		domain.StatusRejected, domain.StatusHired:
	default:
		return nil, fmt.Errorf("unknown candidate status %q", status)
	}

	candidate, err := p.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate %d: %w", candidateID, err)
	}

	candidate.Status = status
	if err := p.candidates.Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("update candidate %d status: %w", candidateID, err)
	}
	return candidate, nil
}

// ListCandidates returns stored candidates narrowed by the filter.
func (p *Pipeline) ListCandidates(ctx context.Context, filter ports.CandidateFilter) ([]domain.Candidate, error) {
	return p.candidates.List(ctx, filter)
}

// ContactCandidate emails an interview invitation and, on delivery, marks the
// candidate contacted. A zero jobID sends a generic invitation.
func (p *Pipeline) ContactCandidate(ctx context.Context, candidateID, jobID int64) error {
	candidate, err := p.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate %d: %w", candidateID, err)
	}

	var job *domain.Job
	if jobID != 0 {
		if job, err = p.jobs.GetJob(ctx, jobID); err != nil {
			return fmt.Errorf("load job %d: %w", jobID, err)
		}
	}

	subject, body := invitationMessage(candidate, job)
	sent, err := p.notifier.Notify(ctx, candidate, subject, body)
	if err != nil {
		return fmt.Errorf("contact candidate %d: %w", candidateID, err)
	}
	if !sent {
		return fmt.Errorf("contact candidate %d: message not delivered", candidateID)
	}

	_, err = p.UpdateCandidateStatus(ctx, candidateID, domain.StatusContacted)
	return err
}

// ScheduleInterview emails the interview slot and marks the candidate
// interview_scheduled.
func (p *Pipeline) ScheduleInterview(ctx context.Context, candidateID int64, when time.Time, jobID int64) error {
	candidate, err := p.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate %d: %w", candidateID, err)
	}

	var job *domain.Job
	if jobID != 0 {
		if job, err = p.jobs.GetJob(ctx, jobID); err != nil {
			return fmt.Errorf("load job %d: %w", jobID, err)
		}
	}

	subject, body := scheduleMessage(candidate, when, job)
	sent, err := p.notifier.Notify(ctx, candidate, subject, body)
	if err != nil {
		return fmt.Errorf("schedule interview for %d: %w", candidateID, err)
	}
	if !sent {
		return fmt.Errorf("schedule interview for %d: message not delivered", candidateID)
	}

	_, err = p.UpdateCandidateStatus(ctx, candidateID, domain.StatusInterviewScheduled)
	return err
}

func invitationMessage(candidate *domain.Candidate, job *domain.Job) (subject, body string) {
	position := "our company"
	if job != nil {
		position = job.Title
	}

	subject = fmt.Sprintf("Interview Invitation - %s", position)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", candidate.FullName())
	fmt.Fprintf(&b, "Thank you for your interest in %s.\n\n", position)
	b.WriteString("Based on your qualifications, we'd like to invite you for an interview. ")
	b.WriteString("Please let us know if you're available and interested in this opportunity.\n")
	if job != nil && job.Description != "" {
		fmt.Fprintf(&b, "\nJob Description: %s\n", job.Description)
	}
	b.WriteString("\nBest regards,\nRecruitment Team\n")
	return subject, b.String()
}

func scheduleMessage(candidate *domain.Candidate, when time.Time, job *domain.Job) (subject, body string) {
	position := "our company"
	if job != nil {
		position = job.Title
	}

	subject = fmt.Sprintf("Interview Scheduled - %s", position)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", candidate.FullName())
	fmt.Fprintf(&b, "Your interview for %s has been scheduled for %s.\n\n",
		position, when.Format("Monday, January 2, 2006 at 3:04 PM"))
	b.WriteString("Please let us know if you need to reschedule.\n")
	b.WriteString("\nBest regards,\nRecruitment Team\n")
	return subject, b.String()
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
