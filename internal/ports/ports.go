package ports

import (
	"context"
	"errors"

	"TalentScout/internal/domain"
)

// ErrNotFound signals a missed lookup (job, candidate). Surfaced to callers
// of the coordinator; never swallowed.
var ErrNotFound = errors.New("not found")

// ErrConflict signals a write rejected by the repository's uniqueness
// discipline (two reconciliations racing on the same email). The reconciler
// retries once before giving up on that one record.
var ErrConflict = errors.New("conflict")

// CandidateFilter narrows candidate listings.
type CandidateFilter struct {
	Source string
	Status domain.CandidateStatus
	Offset int
	Limit  int
}

// CandidateRepository persists candidates keyed by normalized email.
type CandidateRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Candidate, error)
	Create(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error)
	Update(ctx context.Context, candidate *domain.Candidate) error
	GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error)
}

// JobRepository persists open positions.
type JobRepository interface {
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) error
}

// ApplicationRepository records candidate/job application rows.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, candidateID, jobID int64, status domain.ApplicationStatus) error
}

// InferenceBackend pushes prompts to a remote model. Responses carry no
// format guarantee; callers must treat them as potentially non-conforming.
type InferenceBackend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// Extractor turns raw resume text into a structured attribute set.
// Extraction failure degrades to a fully-absent set, never an error.
type Extractor interface {
	Extract(ctx context.Context, resumeText string) domain.AttributeSet
}

// Scorer evaluates one candidate against one job. Scoring failure degrades
// to a zero score with a diagnostic feedback string, never an error.
type Scorer interface {
	Score(ctx context.Context, candidate *domain.Candidate, job *domain.Job) domain.MatchResult
}

// Reconciler merges an incoming raw record into the candidate store under
// the fill-if-absent policy, keyed by normalized email. The boolean reports
// whether a new candidate row was created, so callers can count "found" and
// "new" distinctly.
type Reconciler interface {
	Reconcile(ctx context.Context, raw domain.RawCandidate, sourceName string) (*domain.Candidate, bool, error)
}

// Decoder maps a stored document to plain text. A decode failure yields a
// short diagnostic string as the text, which flows into extraction as
// unparseable content instead of aborting the pipeline.
type Decoder interface {
	Decode(ctx context.Context, path, declaredType string) string
}

// Notifier delivers a message to a candidate. The boolean reports whether
// the message went out (or was accepted by the dev-mode fallback); an error
// means the channel itself misbehaved.
type Notifier interface {
	Notify(ctx context.Context, candidate *domain.Candidate, subject, body string) (bool, error)
}

// Dispatcher runs fire-and-forget background tasks; completion is observable
// only through the repository, never via a return channel.
type Dispatcher interface {
	Submit(task func(ctx context.Context)) bool
	Stop(ctx context.Context) error
}
