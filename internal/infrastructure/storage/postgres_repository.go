package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists candidates, jobs, skills and applications.
// The unique constraint on candidates.email is what makes concurrent
// reconciliations of the same identity race-free; a rejected write surfaces
// as ports.ErrConflict for the reconciler to retry.
type PostgresRepository struct {
	db *sql.DB
}

var (
	_ ports.CandidateRepository   = (*PostgresRepository)(nil)
	_ ports.JobRepository         = (*PostgresRepository)(nil)
	_ ports.ApplicationRepository = (*PostgresRepository)(nil)
)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const candidateColumns = `id, first_name, last_name, email, phone, resume_path, sources,
	experience_years, education, current_position, current_company,
	match_score, match_feedback, status, created_at, updated_at`

// GetByEmail loads one candidate by normalized email, skills included.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	return r.getCandidate(ctx, sq.Eq{"email": domain.NormalizeEmail(email)})
}

// GetCandidate loads one candidate by id, skills included.
func (r *PostgresRepository) GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error) {
	return r.getCandidate(ctx, sq.Eq{"id": id})
}

func (r *PostgresRepository) getCandidate(ctx context.Context, pred any) (*domain.Candidate, error) {
	query, args, err := psql.Select(candidateColumns).
		From("candidates").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	candidate, err := scanCandidate(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("query candidate: %w", err)
	}

	if candidate.Skills, err = r.loadSkills(ctx, candidate.ID); err != nil {
		return nil, err
	}

	return candidate, nil
}

// Create inserts the candidate and attaches its skills. A duplicate email is
// reported as ports.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, candidate *domain.Candidate) (*domain.Candidate, error) {
	query, args, err := psql.Insert("candidates").
		Columns("first_name", "last_name", "email", "phone", "resume_path", "sources",
			"experience_years", "education", "current_position", "current_company",
			"match_score", "match_feedback", "status").
		Values(candidate.FirstName, candidate.LastName, domain.NormalizeEmail(candidate.Email),
			candidate.Phone, candidate.ResumePath, domain.JoinSources(candidate.Sources),
			nullFloat(candidate.ExperienceYears), candidate.Education, candidate.CurrentPosition,
			candidate.CurrentCompany, candidate.MatchScore, candidate.MatchFeedback,
			string(candidate.Status)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate insert: %w", err)
	}

	created := *candidate
	created.Email = domain.NormalizeEmail(candidate.Email)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrConflict
		}
		return nil, fmt.Errorf("insert candidate: %w", err)
	}

	if err := r.saveSkills(ctx, created.ID, created.Skills); err != nil {
		return nil, err
	}
	if created.Skills, err = r.loadSkills(ctx, created.ID); err != nil {
		return nil, err
	}

	return &created, nil
}

// Update rewrites the candidate's mutable columns and unions its skills.
// Email is intentionally not part of the update set.
func (r *PostgresRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	query, args, err := psql.Update("candidates").
		Set("first_name", candidate.FirstName).
		Set("last_name", candidate.LastName).
		Set("phone", candidate.Phone).
		Set("resume_path", candidate.ResumePath).
		Set("sources", domain.JoinSources(candidate.Sources)).
		Set("experience_years", nullFloat(candidate.ExperienceYears)).
		Set("education", candidate.Education).
		Set("current_position", candidate.CurrentPosition).
		Set("current_company", candidate.CurrentCompany).
		Set("match_score", candidate.MatchScore).
		Set("match_feedback", candidate.MatchFeedback).
		Set("status", string(candidate.Status)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": candidate.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build candidate update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return fmt.Errorf("update candidate: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ports.ErrNotFound
	}

	return r.saveSkills(ctx, candidate.ID, candidate.Skills)
}

// List returns candidates matching the filter. A source filter matches any
// candidate carrying that source tag.
func (r *PostgresRepository) List(ctx context.Context, filter ports.CandidateFilter) ([]domain.Candidate, error) {
	builder := psql.Select(candidateColumns).
		From("candidates").
		OrderBy("id")

	if filter.Source != "" {
		builder = builder.Where(sq.Expr("? = ANY(string_to_array(sources, ','))", filter.Source))
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var candidates []domain.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	for i := range candidates {
		if candidates[i].Skills, err = r.loadSkills(ctx, candidates[i].ID); err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

// GetJob loads one job by id.
func (r *PostgresRepository) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	query, args, err := psql.Select("id, title, description, requirements, location, job_type, created_at, updated_at").
		From("jobs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job query: %w", err)
	}

	var (
		job       domain.Job
		updatedAt sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.Title, &job.Description,
		&job.Requirements, &job.Location, &job.JobType, &job.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("query job: %w", err)
	}
	if updatedAt.Valid {
		job.UpdatedAt = updatedAt.Time
	}

	return &job, nil
}

// CreateJob inserts a new position.
func (r *PostgresRepository) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	query, args, err := psql.Insert("jobs").
		Columns("title", "description", "requirements", "location", "job_type").
		Values(job.Title, job.Description, job.Requirements, job.Location, job.JobType).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job insert: %w", err)
	}

	created := *job
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	return &created, nil
}

// UpdateJob rewrites an existing position.
func (r *PostgresRepository) UpdateJob(ctx context.Context, job *domain.Job) error {
	query, args, err := psql.Update("jobs").
		Set("title", job.Title).
		Set("description", job.Description).
		Set("requirements", job.Requirements).
		Set("location", job.Location).
		Set("job_type", job.JobType).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": job.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build job update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}

// CreateApplication inserts one candidate/job application row.
func (r *PostgresRepository) CreateApplication(ctx context.Context, candidateID, jobID int64, status domain.ApplicationStatus) error {
	query, args, err := psql.Insert("job_applications").
		Columns("candidate_id", "job_id", "status").
		Values(candidateID, jobID, string(status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build application insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func (r *PostgresRepository) saveSkills(ctx context.Context, candidateID int64, skills []domain.Skill) error {
	for _, skill := range skills {
		if skill.Name == "" {
			continue
		}

		// Skill names are globally unique; a second insert resolves to the
		// existing row.
		var skillID int64
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO skills (name, category) VALUES ($1, NULLIF($2, ''))
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			skill.Name, skill.Category).Scan(&skillID)
		if err != nil {
			return fmt.Errorf("upsert skill %s: %w", skill.Name, err)
		}

		_, err = r.db.ExecContext(ctx,
			`INSERT INTO candidate_skills (candidate_id, skill_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			candidateID, skillID)
		if err != nil {
			return fmt.Errorf("link skill %s: %w", skill.Name, err)
		}
	}

	return nil
}

func (r *PostgresRepository) loadSkills(ctx context.Context, candidateID int64) ([]domain.Skill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.name, COALESCE(s.category, '')
		 FROM skills s
		 JOIN candidate_skills cs ON cs.skill_id = s.id
		 WHERE cs.candidate_id = $1
		 ORDER BY s.id`,
		candidateID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}

	var skills []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Category); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, skill)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("skill rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close skill rows: %w", closeErr)
	}

	return skills, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var (
		candidate  domain.Candidate
		sources    string
		experience sql.NullFloat64
		updatedAt  sql.NullTime
	)

	err := row.Scan(&candidate.ID, &candidate.FirstName, &candidate.LastName, &candidate.Email,
		&candidate.Phone, &candidate.ResumePath, &sources, &experience, &candidate.Education,
		&candidate.CurrentPosition, &candidate.CurrentCompany, &candidate.MatchScore,
		&candidate.MatchFeedback, (*string)(&candidate.Status), &candidate.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	candidate.Sources = domain.SplitSources(sources)
	if experience.Valid {
		candidate.ExperienceYears = &experience.Float64
	}
	if updatedAt.Valid {
		candidate.UpdatedAt = updatedAt.Time
	}

	return &candidate, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
