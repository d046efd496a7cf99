package source

import (
	"reflect"
	"strings"
	"testing"
)

func TestKeywordsCommaSeparated(t *testing.T) {
	t.Parallel()

	got := Keywords("Golang, PostgreSQL, distributed systems, AWS, the")
	want := []string{"golang", "postgresql", "distributed systems"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keywords: %v", got)
	}
}

func TestKeywordsWhitespaceSeparated(t *testing.T) {
	t.Parallel()

	got := Keywords("senior engineer with strong background in concurrency and profiling")
	for _, kw := range got {
		if len(kw) <= 3 {
			t.Fatalf("short token survived: %q", kw)
		}
		if kw == "with" || kw == "and" {
			t.Fatalf("stopword survived: %q", kw)
		}
	}

	if got[0] != "senior" {
		t.Fatalf("expected first keyword senior, got %q", got[0])
	}
}

func TestKeywordsCapped(t *testing.T) {
	t.Parallel()

	requirements := strings.Repeat("kubernetes, ", 25)
	got := Keywords(requirements)
	if len(got) != maxKeywords {
		t.Fatalf("expected %d keywords, got %d", maxKeywords, len(got))
	}
}

func TestKeywordsEmpty(t *testing.T) {
	t.Parallel()

	if got := Keywords(""); len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}
