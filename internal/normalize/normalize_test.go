package normalize

import (
	"errors"
	"fmt"
	"testing"
)

func TestPositionalQuestionStripWidth(t *testing.T) {
	var n Positional
	for ordinal := 1; ordinal <= 40; ordinal++ {
		raw := fmt.Sprintf("%d. Body of question", ordinal)
		got, err := n.Normalize(raw, RoleQuestion, ordinal)
		if err != nil {
			t.Fatalf("ordinal %d: unexpected error: %v", ordinal, err)
		}
		want := "Body of question"
		if got != want {
			t.Fatalf("ordinal %d: want %q, got %q", ordinal, want, got)
		}

		width := 3
		if ordinal >= 10 {
			width = 4
		}
		if len(raw)-len(got) != width {
			t.Fatalf("ordinal %d: stripped %d characters, want %d", ordinal, len(raw)-len(got), width)
		}
	}
}

func TestPositionalQuestionIsPositionalNotPattern(t *testing.T) {
	got, err := Positional{}.Normalize("abcdefg", RoleQuestion, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "efg" {
		t.Fatalf("want %q, got %q", "efg", got)
	}
}

func TestPositionalOptionIgnoresOrdinal(t *testing.T) {
	for _, ordinal := range []int{1, 9, 10, 40, 100} {
		got, err := Positional{}.Normalize("B. Random Access Memory", RoleOption, ordinal)
		if err != nil {
			t.Fatalf("ordinal %d: unexpected error: %v", ordinal, err)
		}
		if got != "Random Access Memory" {
			t.Fatalf("ordinal %d: unexpected option text %q", ordinal, got)
		}
	}
}

func TestPositionalPreservesContent(t *testing.T) {
	got, err := Positional{}.Normalize("3.  Trailing  space ", RoleQuestion, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != " Trailing  space " {
		t.Fatalf("content should be kept verbatim, got %q", got)
	}
}

func TestPositionalCountsCharactersNotBytes(t *testing.T) {
	got, err := Positional{}.Normalize("ż. Łącze", RoleOption, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Łącze" {
		t.Fatalf("want %q, got %q", "Łącze", got)
	}
}

func TestPositionalMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		role    Role
		ordinal int
	}{
		{"short question", "7.", RoleQuestion, 7},
		{"short two digit question", "12.", RoleQuestion, 12},
		{"short option", "A.", RoleOption, 3},
		{"empty option", "", RoleOption, 1},
		{"zero ordinal", "0. Foo", RoleQuestion, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Positional{}.Normalize(tt.raw, tt.role, tt.ordinal)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestPositionalExactWidthYieldsEmpty(t *testing.T) {
	got, err := Positional{}.Normalize("A. ", RoleOption, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("want empty text, got %q", got)
	}
}

func TestSeparator(t *testing.T) {
	n := Separator{}
	got, err := n.Normalize("123. What is RAM?", RoleQuestion, 123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "What is RAM?" {
		t.Fatalf("unexpected text %q", got)
	}

	if _, err := n.Normalize("no label here", RoleOption, 1); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestByName(t *testing.T) {
	if n, err := ByName(""); err != nil || n != (Positional{}) {
		t.Fatalf("default should be positional, got %v, %v", n, err)
	}
	if _, err := ByName("Separator"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ByName("fuzzy"); err == nil {
		t.Fatal("expected error for unknown normalizer")
	}
}
