package domain

// AttributeSet holds the structured fields derivable from a resume.
// Nil/empty values mean "absent"; the merge never lets an absent incoming
// value clear an already populated one.
type AttributeSet struct {
	ExperienceYears *float64
	Education       string
	CurrentPosition string
	CurrentCompany  string
	Skills          []string
}

// IsEmpty reports whether the set carries no extracted data at all.
func (a AttributeSet) IsEmpty() bool {
	return a.ExperienceYears == nil &&
		a.Education == "" &&
		a.CurrentPosition == "" &&
		a.CurrentCompany == "" &&
		len(a.Skills) == 0
}

// ApplyTo copies each attribute onto the candidate only where the candidate's
// current value is absent and the incoming one is present. The first-populated
// value stays authoritative; later, possibly lower-quality, sources never
// clobber it. Skills are unioned by name, not replaced.
func (a AttributeSet) ApplyTo(c *Candidate) {
	if c.ExperienceYears == nil && a.ExperienceYears != nil && *a.ExperienceYears >= 0 {
		years := *a.ExperienceYears
		c.ExperienceYears = &years
	}
	if c.Education == "" && a.Education != "" {
		c.Education = a.Education
	}
	if c.CurrentPosition == "" && a.CurrentPosition != "" {
		c.CurrentPosition = a.CurrentPosition
	}
	if c.CurrentCompany == "" && a.CurrentCompany != "" {
		c.CurrentCompany = a.CurrentCompany
	}
	for _, name := range a.Skills {
		if name == "" || c.HasSkill(name) {
			continue
		}
		c.Skills = append(c.Skills, Skill{Name: name})
	}
}

// RawCandidate is a record as returned by an external provider: an email plus
// any subset of the optional candidate attributes.
type RawCandidate struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	CurrentPosition string
	CurrentCompany  string
	ExperienceYears *float64
	Education       string
	Skills          []string
}

// Attributes views the raw record as an AttributeSet for merging.
func (r RawCandidate) Attributes() AttributeSet {
	return AttributeSet{
		ExperienceYears: r.ExperienceYears,
		Education:       r.Education,
		CurrentPosition: r.CurrentPosition,
		CurrentCompany:  r.CurrentCompany,
		Skills:          r.Skills,
	}
}

// MatchResult is the bounded outcome of evaluating one candidate against one job.
type MatchResult struct {
	Score    float64
	Feedback string
}

// ClampScore bounds a raw model score to [0, 1].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
