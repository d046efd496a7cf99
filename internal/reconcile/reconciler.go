package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
)

// Reconciler merges incoming raw candidate records into the store by
// normalized email. The repository is expected to keep email lookups and
// writes race-free via its unique constraint; on a conflict the reconciler
// retries once and then surfaces a transient failure for that record only.
type Reconciler struct {
	candidates ports.CandidateRepository
	logger     *slog.Logger
}

var _ ports.Reconciler = (*Reconciler)(nil)

// New wires the reconciler with its candidate repository.
func New(candidates ports.CandidateRepository, logger *slog.Logger) *Reconciler {
	return &Reconciler{candidates: candidates, logger: logger}
}

// Reconcile looks up the record by email and either creates a fresh candidate
// or merges non-destructively into the existing one. Email itself is never
// overwritten; the caller never has to enforce uniqueness. The boolean
// reports whether a new row was created.
func (r *Reconciler) Reconcile(ctx context.Context, raw domain.RawCandidate, sourceName string) (*domain.Candidate, bool, error) {
	email := domain.NormalizeEmail(raw.Email)
	if email == "" {
		return nil, false, fmt.Errorf("raw candidate from %s has no email", sourceName)
	}

	candidate, created, err := r.reconcileOnce(ctx, email, raw, sourceName)
	if errors.Is(err, ports.ErrConflict) {
		r.debug("retrying reconcile after conflict", "email", email, "source", sourceName)
		candidate, created, err = r.reconcileOnce(ctx, email, raw, sourceName)
	}
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, false, fmt.Errorf("reconcile %s: %w", email, err)
		}
		return nil, false, err
	}

	return candidate, created, nil
}

func (r *Reconciler) reconcileOnce(ctx context.Context, email string, raw domain.RawCandidate, sourceName string) (*domain.Candidate, bool, error) {
	existing, err := r.candidates.GetByEmail(ctx, email)
	switch {
	case err == nil:
		merged, mergeErr := r.merge(ctx, existing, raw, sourceName)
		return merged, false, mergeErr
	case errors.Is(err, ports.ErrNotFound):
		created, createErr := r.create(ctx, email, raw, sourceName)
		return created, createErr == nil, createErr
	default:
		return nil, false, fmt.Errorf("lookup candidate %s: %w", email, err)
	}
}

func (r *Reconciler) create(ctx context.Context, email string, raw domain.RawCandidate, sourceName string) (*domain.Candidate, error) {
	candidate := &domain.Candidate{
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     email,
		Phone:     raw.Phone,
		Sources:   []string{sourceName},
		Status:    domain.StatusNew,
	}
	raw.Attributes().ApplyTo(candidate)

	created, err := r.candidates.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create candidate %s: %w", email, err)
	}

	r.debug("candidate created", "email", email, "source", sourceName)
	return created, nil
}

func (r *Reconciler) merge(ctx context.Context, candidate *domain.Candidate, raw domain.RawCandidate, sourceName string) (*domain.Candidate, error) {
	if candidate.FirstName == "" && raw.FirstName != "" {
		candidate.FirstName = raw.FirstName
	}
	if candidate.LastName == "" && raw.LastName != "" {
		candidate.LastName = raw.LastName
	}
	if candidate.Phone == "" && raw.Phone != "" {
		candidate.Phone = raw.Phone
	}
	raw.Attributes().ApplyTo(candidate)
	candidate.AddSource(sourceName)

	if err := r.candidates.Update(ctx, candidate); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update candidate %s: %w", candidate.Email, err)
	}

	r.debug("candidate merged", "email", candidate.Email, "source", sourceName)
	return candidate, nil
}

func (r *Reconciler) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
