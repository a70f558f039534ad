// Package resolve decides which of the four displayed options to mark for a
// question, using exact matches against the answer key.
package resolve

import (
	"context"
	"fmt"

	"examsolver/internal/models"
	"examsolver/internal/normalize"
	"examsolver/internal/store"
)

type Resolver struct {
	normalizer normalize.Normalizer
	answers    store.AnswerStore
}

func New(normalizer normalize.Normalizer, answers store.AnswerStore) *Resolver {
	if normalizer == nil {
		normalizer = normalize.Positional{}
	}
	return &Resolver{normalizer: normalizer, answers: answers}
}

// Resolution is the outcome for one question. An empty Marked with no error
// means the key has nothing for this question.
type Resolution struct {
	Key     string
	Answers []string
	Marked  models.Selection
}

func (r *Resolver) Resolve(ctx context.Context, q models.Question, options []models.AnswerOption) (Resolution, error) {
	if err := checkLayout(q, options); err != nil {
		return Resolution{}, err
	}

	key, err := r.normalizer.Normalize(q.Raw, normalize.RoleQuestion, q.Ordinal)
	if err != nil {
		return Resolution{}, err
	}

	var texts [4]string
	for i, opt := range options {
		texts[i], err = r.normalizer.Normalize(opt.Raw, normalize.RoleOption, q.Ordinal)
		if err != nil {
			return Resolution{}, fmt.Errorf("option %s: %w", opt.Letter, err)
		}
	}

	answers, err := r.answers.Lookup(ctx, key)
	if err != nil {
		return Resolution{}, fmt.Errorf("question %d: %w", q.Ordinal, err)
	}

	var marked [4]bool
	for _, answer := range answers {
		for i, text := range texts {
			if text == answer {
				marked[i] = true
			}
		}
	}

	return Resolution{
		Key:     key,
		Answers: answers,
		Marked:  models.NewSelection(marked),
	}, nil
}

func checkLayout(q models.Question, options []models.AnswerOption) error {
	if len(options) != len(models.Letters) {
		return fmt.Errorf("%w: question %d has %d options, want %d", normalize.ErrMalformedInput, q.Ordinal, len(options), len(models.Letters))
	}
	for i, opt := range options {
		if opt.Letter != models.Letters[i] {
			return fmt.Errorf("%w: question %d option %d is %q, want %q", normalize.ErrMalformedInput, q.Ordinal, i, opt.Letter, models.Letters[i])
		}
	}
	return nil
}
