package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
	"TalentScout/internal/reconcile"
	"TalentScout/internal/source"
)

type memCandidates struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*domain.Candidate

	updateErrs map[string]error
}

func newMemCandidates() *memCandidates {
	return &memCandidates{byEmail: map[string]*domain.Candidate{}}
}

func (m *memCandidates) GetByEmail(_ context.Context, email string) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byEmail[email]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (m *memCandidates) Create(_ context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[candidate.Email]; exists {
		return nil, ports.ErrConflict
	}
	m.nextID++
	clone := *candidate
	clone.ID = m.nextID
	m.byEmail[candidate.Email] = &clone
	result := clone
	return &result, nil
}

func (m *memCandidates) Update(_ context.Context, candidate *domain.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.updateErrs[candidate.Email]; ok {
		return err
	}
	clone := *candidate
	m.byEmail[candidate.Email] = &clone
	return nil
}

func (m *memCandidates) GetCandidate(_ context.Context, id int64) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byEmail {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memCandidates) List(_ context.Context, _ ports.CandidateFilter) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Candidate, 0, len(m.byEmail))
	for _, c := range m.byEmail {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCandidates) get(email string) *domain.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byEmail[email]; ok {
		clone := *c
		return &clone
	}
	return nil
}

type memJobs struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Job
}

func newMemJobs(jobs ...*domain.Job) *memJobs {
	m := &memJobs{byID: map[int64]*domain.Job{}}
	for _, job := range jobs {
		m.nextID++
		job.ID = m.nextID
		m.byID[job.ID] = job
	}
	return m
}

func (m *memJobs) GetJob(_ context.Context, id int64) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.byID[id]; ok {
		clone := *job
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (m *memJobs) CreateJob(_ context.Context, job *domain.Job) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	clone := *job
	clone.ID = m.nextID
	m.byID[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (m *memJobs) UpdateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[job.ID]; !ok {
		return ports.ErrNotFound
	}
	clone := *job
	m.byID[job.ID] = &clone
	return nil
}

type appRow struct {
	candidateID int64
	jobID       int64
	status      domain.ApplicationStatus
}

type memApplications struct {
	mu   sync.Mutex
	rows []appRow
}

func (m *memApplications) CreateApplication(_ context.Context, candidateID, jobID int64, status domain.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, appRow{candidateID: candidateID, jobID: jobID, status: status})
	return nil
}

func (m *memApplications) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// stubScorer returns canned results keyed by candidate email.
type stubScorer struct {
	scores map[string]domain.MatchResult
}

func (s *stubScorer) Score(_ context.Context, candidate *domain.Candidate, _ *domain.Job) domain.MatchResult {
	if result, ok := s.scores[candidate.Email]; ok {
		return result
	}
	return domain.MatchResult{Score: 0.5, Feedback: "moderate match"}
}

type stubConnector struct {
	name    string
	enabled bool
	raws    []domain.RawCandidate
	err     error

	// block makes Search hang until the per-connector timeout fires.
	block bool
}

func (s *stubConnector) Name() string  { return s.name }
func (s *stubConnector) Enabled() bool { return s.enabled }

func (s *stubConnector) Search(ctx context.Context, _ *domain.Job) ([]domain.RawCandidate, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.raws, s.err
}

func newTestOrchestrator(jobs *memJobs, candidates *memCandidates, apps *memApplications,
	scorer ports.Scorer, connectors ...source.Connector) *Orchestrator {
	registry := source.NewRegistry()
	for _, c := range connectors {
		registry.Register(c)
	}
	evaluator := NewEvaluator(scorer, candidates, apps, 0, nil)
	reconciler := reconcile.New(candidates, nil)
	return NewOrchestrator(jobs, registry, reconciler, evaluator, 50*time.Millisecond, nil)
}

func TestRunReportsFoundAndNewDistinctly(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	candidates := newMemCandidates()
	apps := &memApplications{}

	// jane already exists from a direct application; linkedin re-finds her.
	if _, err := candidates.Create(context.Background(), &domain.Candidate{
		Email: "jane@x.com", Sources: []string{domain.SourceApplied}, Status: domain.StatusNew,
	}); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	scorer := &stubScorer{scores: map[string]domain.MatchResult{
		"jane@x.com": {Score: 0.85, Feedback: "strong match"},
		"bob@x.com":  {Score: 0.4, Feedback: "weak match"},
	}}

	orchestrator := newTestOrchestrator(jobs, candidates, apps, scorer,
		&stubConnector{name: "linkedin", enabled: true, raws: []domain.RawCandidate{
			{Email: "jane@x.com", CurrentPosition: "Engineer"},
			{Email: "bob@x.com", FirstName: "Bob"},
		}},
		&stubConnector{name: "naukri", enabled: true, raws: []domain.RawCandidate{
			{Email: "eve@x.com", FirstName: "Eve"},
		}},
	)

	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin", "naukri"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.TotalFound != 3 {
		t.Fatalf("expected 3 found, got %d", result.TotalFound)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id")
	}

	linkedin := result.Sources["linkedin"]
	if linkedin == nil || linkedin.Found != 2 || linkedin.New != 1 {
		t.Fatalf("unexpected linkedin summary: %+v", linkedin)
	}
	naukri := result.Sources["naukri"]
	if naukri == nil || naukri.Found != 1 || naukri.New != 1 {
		t.Fatalf("unexpected naukri summary: %+v", naukri)
	}

	// only jane crosses the promotion threshold
	if apps.count() != 1 {
		t.Fatalf("expected one application row, got %d", apps.count())
	}
	jane := candidates.get("jane@x.com")
	if jane.MatchScore != 0.85 || jane.MatchFeedback != "strong match" {
		t.Fatalf("score not persisted: %+v", jane)
	}
	bob := candidates.get("bob@x.com")
	if bob.MatchScore != 0.4 {
		t.Fatalf("below-threshold score must still persist: %+v", bob)
	}

	var promoted int
	for _, summary := range linkedin.Candidates {
		if summary.Promoted {
			promoted++
		}
	}
	if promoted != 1 {
		t.Fatalf("expected one promoted summary, got %d", promoted)
	}
}

func TestRunIsolatesFailingProvider(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	candidates := newMemCandidates()
	apps := &memApplications{}

	orchestrator := newTestOrchestrator(jobs, candidates, apps, &stubScorer{},
		&stubConnector{name: "linkedin", enabled: true, err: errors.New("503 from upstream")},
		&stubConnector{name: "naukri", enabled: true, raws: []domain.RawCandidate{
			{Email: "eve@x.com"},
		}},
	)

	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin", "naukri"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.TotalFound != 1 {
		t.Fatalf("expected 1 found, got %d", result.TotalFound)
	}
	if result.Sources["linkedin"].Found != 0 {
		t.Fatalf("failed provider must report an empty slot: %+v", result.Sources["linkedin"])
	}
	if result.Sources["naukri"].Found != 1 {
		t.Fatalf("sibling provider affected by failure: %+v", result.Sources["naukri"])
	}
}

func TestRunTimesOutSlowProvider(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	candidates := newMemCandidates()
	apps := &memApplications{}

	orchestrator := newTestOrchestrator(jobs, candidates, apps, &stubScorer{},
		&stubConnector{name: "linkedin", enabled: true, block: true},
		&stubConnector{name: "naukri", enabled: true, raws: []domain.RawCandidate{
			{Email: "eve@x.com"},
		}},
	)

	start := time.Now()
	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin", "naukri"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("run blocked on slow provider for %v", elapsed)
	}

	if result.Sources["linkedin"].Found != 0 {
		t.Fatalf("timed-out provider must report an empty slot: %+v", result.Sources["linkedin"])
	}
	if result.TotalFound != 1 {
		t.Fatalf("expected 1 found, got %d", result.TotalFound)
	}
}

func TestRunSkipsUnknownAndDisabledProviders(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	candidates := newMemCandidates()
	apps := &memApplications{}

	orchestrator := newTestOrchestrator(jobs, candidates, apps, &stubScorer{},
		&stubConnector{name: "linkedin", enabled: false},
		&stubConnector{name: "naukri", enabled: true, raws: []domain.RawCandidate{
			{Email: "eve@x.com"},
		}},
	)

	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin", "naukri", "monster"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok := result.Sources["linkedin"]; ok {
		t.Fatal("disabled provider must not appear in the result")
	}
	if _, ok := result.Sources["monster"]; ok {
		t.Fatal("unknown provider must not appear in the result")
	}
	if result.TotalFound != 1 {
		t.Fatalf("expected 1 found, got %d", result.TotalFound)
	}
}

func TestRunWithoutEnabledProviders(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	orchestrator := newTestOrchestrator(jobs, newMemCandidates(), &memApplications{}, &stubScorer{},
		&stubConnector{name: "linkedin", enabled: false},
	)

	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TotalFound != 0 || len(result.Sources) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRunMissingJobIsHardFailure(t *testing.T) {
	t.Parallel()

	orchestrator := newTestOrchestrator(newMemJobs(), newMemCandidates(), &memApplications{}, &stubScorer{})

	_, err := orchestrator.Run(context.Background(), 42, []string{"linkedin"})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunIsolatesBadRecords(t *testing.T) {
	t.Parallel()

	jobs := newMemJobs(&domain.Job{Title: "Go Engineer"})
	candidates := newMemCandidates()
	apps := &memApplications{}

	// record without an email cannot be reconciled; its siblings still land
	orchestrator := newTestOrchestrator(jobs, candidates, apps, &stubScorer{},
		&stubConnector{name: "linkedin", enabled: true, raws: []domain.RawCandidate{
			{FirstName: "No", LastName: "Email"},
			{Email: "eve@x.com"},
		}},
	)

	result, err := orchestrator.Run(context.Background(), 1, []string{"linkedin"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	linkedin := result.Sources["linkedin"]
	if linkedin.Found != 2 || linkedin.Failed != 1 || len(linkedin.Candidates) != 1 {
		t.Fatalf("unexpected summary: %+v", linkedin)
	}
	if candidates.get("eve@x.com") == nil {
		t.Fatal("valid sibling record was not reconciled")
	}
}
