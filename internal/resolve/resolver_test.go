package resolve

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"examsolver/internal/models"
	"examsolver/internal/normalize"
	"examsolver/internal/store"
)

type mapStore struct {
	records map[string][]string
	calls   []string
	err     error
}

func (m *mapStore) Lookup(_ context.Context, question string) ([]string, error) {
	m.calls = append(m.calls, question)
	if m.err != nil {
		return nil, m.err
	}
	return m.records[question], nil
}

func options(raw ...string) []models.AnswerOption {
	opts := make([]models.AnswerOption, len(raw))
	for i, text := range raw {
		opts[i] = models.AnswerOption{Letter: models.Letters[i], Raw: text}
	}
	return opts
}

func resolve(t *testing.T, s store.AnswerStore, q models.Question, opts []models.AnswerOption) Resolution {
	t.Helper()
	got, err := New(nil, s).Resolve(context.Background(), q, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestResolveSingleAnswer(t *testing.T) {
	s := &mapStore{records: map[string][]string{"What is RAM?": {"Random Access Memory"}}}

	got := resolve(t, s,
		models.Question{Ordinal: 7, Raw: "7. What is RAM?"},
		options("A. ROM", "B. Random Access Memory", "C. CPU", "D. SSD"),
	)

	if got.Key != "What is RAM?" {
		t.Fatalf("unexpected lookup key %q", got.Key)
	}
	if !reflect.DeepEqual(s.calls, []string{"What is RAM?"}) {
		t.Fatalf("unexpected lookups: %v", s.calls)
	}
	if want := (models.Selection{models.LetterB}); !reflect.DeepEqual(got.Marked, want) {
		t.Fatalf("want %v, got %v", want, got.Marked)
	}
}

func TestResolveOptionC(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Q": {"third"}}}
	got := resolve(t, s, models.Question{Ordinal: 1, Raw: "1. Q"}, options("A. first", "B. second", "C. third", "D. fourth"))

	if want := (models.Selection{models.LetterC}); !reflect.DeepEqual(got.Marked, want) {
		t.Fatalf("want %v, got %v", want, got.Marked)
	}
}

func TestResolveMultipleRecords(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Pick two true statements": {"X", "Y"}}}

	got := resolve(t, s,
		models.Question{Ordinal: 12, Raw: "12. Pick two true statements"},
		options("A. W", "B. X", "C. Z", "D. Y"),
	)

	if want := (models.Selection{models.LetterB, models.LetterD}); !reflect.DeepEqual(got.Marked, want) {
		t.Fatalf("want %v, got %v", want, got.Marked)
	}
}

func TestResolveDuplicateWording(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Q": {"same"}}}
	got := resolve(t, s, models.Question{Ordinal: 3, Raw: "3. Q"}, options("A. same", "B. other", "C. same", "D. else"))

	if want := (models.Selection{models.LetterA, models.LetterC}); !reflect.DeepEqual(got.Marked, want) {
		t.Fatalf("want %v, got %v", want, got.Marked)
	}
}

func TestResolveAllFour(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Q": {"a", "b", "c", "d"}}}
	got := resolve(t, s, models.Question{Ordinal: 40, Raw: "40. Q"}, options("A. a", "B. b", "C. c", "D. d"))

	if len(got.Marked) != 4 {
		t.Fatalf("expected all four letters, got %v", got.Marked)
	}
}

func TestResolveNoRecord(t *testing.T) {
	s := &mapStore{records: map[string][]string{}}
	got := resolve(t, s, models.Question{Ordinal: 5, Raw: "5. Unknown"}, options("A. a", "B. b", "C. c", "D. d"))

	if len(got.Marked) != 0 {
		t.Fatalf("expected empty selection, got %v", got.Marked)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Q": {"Random access memory"}}}
	got := resolve(t, s, models.Question{Ordinal: 2, Raw: "2. Q"}, options("A. Random Access Memory", "B. b", "C. c", "D. d"))

	if len(got.Marked) != 0 {
		t.Fatalf("expected no match, got %v", got.Marked)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	s := &mapStore{records: map[string][]string{"Q": {"d", "b"}}}
	q := models.Question{Ordinal: 9, Raw: "9. Q"}
	opts := options("A. a", "B. b", "C. c", "D. d")

	first := resolve(t, s, q, opts)
	second := resolve(t, s, q, opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
}

func TestResolveMalformedInput(t *testing.T) {
	s := &mapStore{}
	r := New(normalize.Positional{}, s)

	tests := []struct {
		name string
		q    models.Question
		opts []models.AnswerOption
	}{
		{"short question", models.Question{Ordinal: 11, Raw: "11."}, options("A. a", "B. b", "C. c", "D. d")},
		{"short option", models.Question{Ordinal: 1, Raw: "1. Q"}, options("A. a", "B", "C. c", "D. d")},
		{"three options", models.Question{Ordinal: 1, Raw: "1. Q"}, options("A. a", "B. b", "C. c")},
		{"out of order", models.Question{Ordinal: 1, Raw: "1. Q"}, []models.AnswerOption{
			{Letter: models.LetterB, Raw: "B. b"},
			{Letter: models.LetterA, Raw: "A. a"},
			{Letter: models.LetterC, Raw: "C. c"},
			{Letter: models.LetterD, Raw: "D. d"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.q, tt.opts)
			if !errors.Is(err, normalize.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
	if len(s.calls) != 0 {
		t.Fatalf("store should not be queried for malformed input, got %v", s.calls)
	}
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	s := &mapStore{err: store.ErrStoreUnavailable}
	_, err := New(nil, s).Resolve(context.Background(), models.Question{Ordinal: 1, Raw: "1. Q"}, options("A. a", "B. b", "C. c", "D. d"))
	if !errors.Is(err, store.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestResolveWithSeparatorNormalizer(t *testing.T) {
	s := &mapStore{records: map[string][]string{"What is RAM?": {"Random Access Memory"}}}
	got, err := New(normalize.Separator{}, s).Resolve(context.Background(),
		models.Question{Ordinal: 7, Raw: "7. What is RAM?"},
		options("A. ROM", "B. Random Access Memory", "C. CPU", "D. SSD"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Marked.Has(models.LetterB) || len(got.Marked) != 1 {
		t.Fatalf("expected only B, got %v", got.Marked)
	}
}
