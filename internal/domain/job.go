package domain

import "time"

// Job describes an open position candidates are matched against.
type Job struct {
	ID           int64
	Title        string
	Description  string
	Requirements string
	Location     string
	JobType      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplicationStatus enumerates milestones of one candidate/job application.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationScreening ApplicationStatus = "screening"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationOffer     ApplicationStatus = "offer"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationAccepted  ApplicationStatus = "accepted"

	// ApplicationMatched is set by the scoring pipeline when a candidate
	// crosses the promotion threshold for a job.
	ApplicationMatched ApplicationStatus = "matched"
)

// JobApplication links a candidate to a job. Multiple rows per pair may
// accumulate across pipeline runs; each row is one promotion or scheduling
// event, preserved as history.
type JobApplication struct {
	ID          int64
	CandidateID int64
	JobID       int64
	Status      ApplicationStatus
	AppliedAt   time.Time
	LastUpdated time.Time

	EmailSent        bool
	ResponseReceived bool
}
