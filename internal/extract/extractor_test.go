package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"TalentScout/internal/domain"
)

type stubBackend struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubBackend) Complete(_ context.Context, systemPrompt, userPrompt string, _ float64) (string, error) {
	s.lastSystem = systemPrompt
	s.lastPrompt = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractParsesStructuredReply(t *testing.T) {
	t.Parallel()

	stub := &stubBackend{response: `{
		"experience_years": 5.5,
		"education": "MS Computer Science, Stanford University",
		"current_position": "Senior Software Engineer",
		"current_company": "Tech Inc",
		"skills": ["Go", "PostgreSQL", "Kubernetes"]
	}`}

	extractor := New(stub, nil)
	attrs := extractor.Extract(context.Background(), "resume body")

	if attrs.ExperienceYears == nil || *attrs.ExperienceYears != 5.5 {
		t.Fatalf("unexpected experience: %v", attrs.ExperienceYears)
	}
	if attrs.CurrentCompany != "Tech Inc" {
		t.Fatalf("unexpected company: %s", attrs.CurrentCompany)
	}
	if !reflect.DeepEqual(attrs.Skills, []string{"Go", "PostgreSQL", "Kubernetes"}) {
		t.Fatalf("unexpected skills: %v", attrs.Skills)
	}
	if !strings.Contains(stub.lastPrompt, "resume body") {
		t.Fatal("resume text missing from prompt")
	}
}

func TestExtractToleratesFencedAndQuotedValues(t *testing.T) {
	t.Parallel()

	stub := &stubBackend{response: "```json\n{\"experience_years\": \"4\", \"education\": null, \"skills\": [\"Go\", 42]}\n```"}

	attrs := New(stub, nil).Extract(context.Background(), "text")

	if attrs.ExperienceYears == nil || *attrs.ExperienceYears != 4 {
		t.Fatalf("quoted number not coerced: %v", attrs.ExperienceYears)
	}
	if attrs.Education != "" {
		t.Fatalf("null education should stay absent: %q", attrs.Education)
	}
	if !reflect.DeepEqual(attrs.Skills, []string{"Go"}) {
		t.Fatalf("non-string skill should be dropped: %v", attrs.Skills)
	}
}

func TestExtractDegradesToEmptySet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		stub *stubBackend
	}{
		{"backend error", &stubBackend{err: errors.New("boom")}},
		{"garbage reply", &stubBackend{response: "I cannot help with that."}},
		{"negative experience", &stubBackend{response: `{"experience_years": -3}`}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			attrs := New(tc.stub, nil).Extract(context.Background(), "text")
			if !attrs.IsEmpty() {
				t.Fatalf("expected fully-absent set, got %+v", attrs)
			}
		})
	}
}

func TestExtractTruncatesLongResumes(t *testing.T) {
	t.Parallel()

	stub := &stubBackend{response: `{}`}
	long := strings.Repeat("x", maxResumeRunes*2)

	New(stub, nil).Extract(context.Background(), long)

	if len(stub.lastPrompt) > len(instruction)+maxResumeRunes+3 {
		t.Fatalf("prompt not truncated: %d runes", len(stub.lastPrompt))
	}
}

func TestExtractNilBackend(t *testing.T) {
	t.Parallel()

	var attrs domain.AttributeSet = New(nil, nil).Extract(context.Background(), "text")
	if !attrs.IsEmpty() {
		t.Fatalf("expected empty set, got %+v", attrs)
	}
}
