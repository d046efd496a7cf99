package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		resume_path TEXT NOT NULL DEFAULT '',
		sources TEXT NOT NULL DEFAULT '',
		experience_years NUMERIC,
		education TEXT NOT NULL DEFAULT '',
		current_position TEXT NOT NULL DEFAULT '',
		current_company TEXT NOT NULL DEFAULT '',
		match_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		match_feedback TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		requirements TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		job_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_skills (
		candidate_id BIGINT NOT NULL REFERENCES candidates(id),
		skill_id BIGINT NOT NULL REFERENCES skills(id),
		PRIMARY KEY (candidate_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS job_applications (
		id BIGSERIAL PRIMARY KEY,
		candidate_id BIGINT NOT NULL REFERENCES candidates(id),
		job_id BIGINT NOT NULL REFERENCES jobs(id),
		status TEXT NOT NULL DEFAULT 'applied',
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_updated TIMESTAMPTZ,
		email_sent BOOLEAN NOT NULL DEFAULT FALSE,
		response_received BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

// EnsureSchema creates the tables on startup when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
