package domain

import (
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestApplyToFillsOnlyAbsentFields(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{
		Email:           "a@x.com",
		CurrentPosition: "Engineer",
	}

	attrs := AttributeSet{
		ExperienceYears: floatPtr(5.5),
		CurrentPosition: "Junior Developer",
		CurrentCompany:  "Acme",
	}

	attrs.ApplyTo(candidate)

	if candidate.CurrentPosition != "Engineer" {
		t.Fatalf("populated field was overwritten: %s", candidate.CurrentPosition)
	}
	if candidate.CurrentCompany != "Acme" {
		t.Fatalf("absent field was not filled: %s", candidate.CurrentCompany)
	}
	if candidate.ExperienceYears == nil || *candidate.ExperienceYears != 5.5 {
		t.Fatalf("experience years not applied: %v", candidate.ExperienceYears)
	}
}

func TestApplyToAbsentNeverClears(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{
		Email:           "a@x.com",
		ExperienceYears: floatPtr(4),
		Education:       "MS CS",
		CurrentPosition: "Engineer",
		CurrentCompany:  "Acme",
		Skills:          []Skill{{Name: "Go"}},
	}

	before := *candidate
	AttributeSet{}.ApplyTo(candidate)

	if !reflect.DeepEqual(before.Skills, candidate.Skills) ||
		candidate.Education != before.Education ||
		candidate.CurrentPosition != before.CurrentPosition ||
		candidate.CurrentCompany != before.CurrentCompany ||
		*candidate.ExperienceYears != *before.ExperienceYears {
		t.Fatalf("empty attribute set modified the candidate: %+v", candidate)
	}
}

func TestApplyToIdempotent(t *testing.T) {
	t.Parallel()

	attrs := AttributeSet{
		Education: "BS Software Engineering",
		Skills:    []string{"Go", "SQL"},
	}

	candidate := &Candidate{Email: "a@x.com"}
	attrs.ApplyTo(candidate)
	first := *candidate
	firstSkills := append([]Skill(nil), candidate.Skills...)

	attrs.ApplyTo(candidate)

	if candidate.Education != first.Education {
		t.Fatalf("second apply changed education: %s", candidate.Education)
	}
	if !reflect.DeepEqual(candidate.Skills, firstSkills) {
		t.Fatalf("second apply duplicated skills: %v", candidate.Skills)
	}
}

func TestApplyToRejectsNegativeExperience(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{Email: "a@x.com"}
	AttributeSet{ExperienceYears: floatPtr(-2)}.ApplyTo(candidate)

	if candidate.ExperienceYears != nil {
		t.Fatalf("negative experience should stay absent, got %v", *candidate.ExperienceYears)
	}
}

func TestApplyToUnionsSkillsCaseSensitively(t *testing.T) {
	t.Parallel()

	candidate := &Candidate{
		Email:  "a@x.com",
		Skills: []Skill{{Name: "Go"}},
	}

	AttributeSet{Skills: []string{"Go", "go", "Docker"}}.ApplyTo(candidate)

	var names []string
	for _, s := range candidate.Skills {
		names = append(names, s.Name)
	}
	want := []string{"Go", "go", "Docker"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected skill union: %v", names)
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0},
		{0, 0},
		{0.7, 0.7},
		{1, 1},
		{1.8, 1},
	}

	for _, tc := range cases {
		if got := ClampScore(tc.in); got != tc.want {
			t.Fatalf("ClampScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSourcesRoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{"linkedin", "cvlibrary"}
	joined := JoinSources(sources)
	if joined != "linkedin,cvlibrary" {
		t.Fatalf("unexpected serialized sources: %s", joined)
	}

	if got := SplitSources(joined); !reflect.DeepEqual(got, sources) {
		t.Fatalf("round trip lost ordering: %v", got)
	}

	if got := SplitSources(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
