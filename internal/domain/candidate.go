package domain

import (
	"strings"
	"time"
)

// CandidateStatus enumerates lifecycle milestones of a tracked person.
type CandidateStatus string

const (
	StatusNew                CandidateStatus = "new"
	StatusContacted          CandidateStatus = "contacted"
	StatusInterviewScheduled CandidateStatus = "interview_scheduled"
	StatusRejected           CandidateStatus = "rejected"
	StatusHired              CandidateStatus = "hired"
)

// SourceApplied marks candidates that entered through a direct application
// rather than an external provider search.
const SourceApplied = "applied"

// Skill is a globally unique named capability, optionally categorized.
type Skill struct {
	ID       int64
	Name     string
	Category string
}

// Candidate is the core entity, uniquely identified by normalized email.
type Candidate struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	ResumePath string

	// Sources records how the candidate entered the system, in order of
	// first appearance ("applied" or provider names).
	Sources []string

	// Extracted resume attributes; nil/empty means absent.
	ExperienceYears *float64
	Education       string
	CurrentPosition string
	CurrentCompany  string

	MatchScore    float64
	MatchFeedback string

	Status CandidateStatus
	Skills []Skill

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the name parts for display and prompt building.
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasSource reports whether the candidate already carries the given source tag.
func (c *Candidate) HasSource(name string) bool {
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// AddSource appends a source tag unless it is already present.
func (c *Candidate) AddSource(name string) {
	if name == "" || c.HasSource(name) {
		return
	}
	c.Sources = append(c.Sources, name)
}

// HasSkill reports whether a skill with the given name is already attached.
// Skill names are compared case-sensitively, matching their storage identity.
func (c *Candidate) HasSkill(name string) bool {
	for _, s := range c.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims an email so it can act as identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// JoinSources serializes the ordered source set for the storage boundary.
func JoinSources(sources []string) string {
	return strings.Join(sources, ",")
}

// SplitSources parses the stored comma-joined representation back into the
// ordered source set, dropping empty elements.
func SplitSources(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	sources := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sources = append(sources, p)
		}
	}
	return sources
}
