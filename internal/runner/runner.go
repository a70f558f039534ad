// Package runner drives one exam attempt: it opens the page, dismisses the
// cookie banner, then scrapes, resolves and marks every question in order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"examsolver/internal/browser"
	"examsolver/internal/constants"
	"examsolver/internal/models"
	"examsolver/internal/resolve"
	"examsolver/internal/utils"

	"github.com/cheggaaa/pb/v3"
)

var ErrNoQuestions = errors.New("no questions found on page")

const progressTemplate = `{{string . "prefix"}}{{bar . "[" "=" ">" " " "]"}} {{percent . }} {{counters . }}`

type Options struct {
	URL           string
	CookieTimeout time.Duration
	// Progress receives the progress bar; nil hides it.
	Progress io.Writer
}

type Runner struct {
	browser  browser.Browser
	resolver *resolve.Resolver
	opts     Options
}

func New(b browser.Browser, resolver *resolve.Resolver, opts Options) *Runner {
	if opts.URL == "" {
		opts.URL = constants.ExamURL
	}
	if opts.CookieTimeout <= 0 {
		opts.CookieTimeout = constants.CookieWaitTimeout
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Runner{browser: b, resolver: resolver, opts: opts}
}

// Run solves every question box on the page. A question without a stored
// answer is recorded and skipped; malformed text or a store failure stops the run.
func (r *Runner) Run(ctx context.Context) (models.RunSummary, error) {
	var summary models.RunSummary
	startTime := utils.StartTime()

	if err := r.browser.Navigate(ctx, r.opts.URL); err != nil {
		return summary, err
	}

	if err := r.dismissCookies(ctx); err != nil {
		return summary, err
	}

	boxes, err := r.browser.FindElements(ctx, constants.QuestionBoxSelector)
	if err != nil {
		return summary, err
	}
	if len(boxes) == 0 {
		return summary, fmt.Errorf("%w: %s", ErrNoQuestions, r.opts.URL)
	}
	if len(boxes) != constants.QuestionCount {
		debugf("expected %d questions, page has %d", constants.QuestionCount, len(boxes))
	}

	bar := pb.New(len(boxes)).
		SetWriter(r.opts.Progress).
		SetTemplateString(progressTemplate).
		Set("prefix", "Question Solving Progress ").
		Start()
	defer bar.Finish()

	for i, box := range boxes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := r.solve(ctx, i+1, box)
		if err != nil {
			return summary, err
		}

		summary.Results = append(summary.Results, result)
		if len(result.Marked) == 0 {
			summary.Unanswered++
			debugf("question %d: no answer found for %q", result.Ordinal, result.Question)
		} else {
			summary.Answered++
		}
		bar.Increment()
	}

	debugf("solved %d question(s) in %s", len(boxes), utils.TimeSince(startTime))
	return summary, nil
}

func (r *Runner) dismissCookies(ctx context.Context) error {
	button, found, err := r.browser.WaitFor(ctx, constants.CookieRejectSelector, r.opts.CookieTimeout)
	if err != nil {
		return fmt.Errorf("cookie banner: %w", err)
	}
	if !found {
		debugf("no cookie banner after %v", r.opts.CookieTimeout)
		return nil
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("reject cookies: %w", err)
	}
	debugf("cookie banner dismissed")
	return nil
}

func (r *Runner) solve(ctx context.Context, ordinal int, box browser.Element) (models.QuestionResult, error) {
	raw, err := box.Text()
	if err != nil {
		return models.QuestionResult{}, fmt.Errorf("question %d text: %w", ordinal, err)
	}

	options := make([]models.AnswerOption, 0, len(models.Letters))
	for _, letter := range models.Letters {
		id := fmt.Sprintf("%s%s%d", constants.OptionIDPrefix, letter.Lower(), ordinal)
		el, err := r.browser.FindElementByID(ctx, id)
		if err != nil {
			return models.QuestionResult{}, fmt.Errorf("question %d option %s: %w", ordinal, letter, err)
		}
		text, err := el.Text()
		if err != nil {
			return models.QuestionResult{}, fmt.Errorf("question %d option %s text: %w", ordinal, letter, err)
		}
		elementID, ok, err := el.Attribute("id")
		if err != nil {
			return models.QuestionResult{}, fmt.Errorf("question %d option %s id: %w", ordinal, letter, err)
		}
		if !ok || elementID == "" {
			elementID = id
		}
		options = append(options, models.AnswerOption{Letter: letter, Raw: text, ElementID: elementID})
	}

	resolution, err := r.resolver.Resolve(ctx, models.Question{Ordinal: ordinal, Raw: raw}, options)
	if err != nil {
		return models.QuestionResult{}, err
	}

	for _, letter := range resolution.Marked {
		inputID := AnswerInputID(options[letter.Index()].ElementID)
		if err := r.browser.ExecuteScript(ctx, constants.CheckAnswerScript, inputID); err != nil {
			return models.QuestionResult{}, fmt.Errorf("question %d mark %s: %w", ordinal, letter, err)
		}
	}

	return models.QuestionResult{
		Ordinal:  ordinal,
		Question: resolution.Key,
		Answers:  resolution.Answers,
		Marked:   resolution.Marked,
	}, nil
}

// AnswerInputID maps an option container id (odpb7) to its input (ansb7).
func AnswerInputID(optionElementID string) string {
	return constants.AnswerInputIDPrefix + strings.TrimPrefix(optionElementID, constants.OptionIDPrefix)
}
