package models

import "strings"

// Letter identifies one of the four displayed answer options.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters is the fixed option order on the exam page.
var Letters = [4]Letter{LetterA, LetterB, LetterC, LetterD}

// Index returns the position of l in Letters, or -1.
func (l Letter) Index() int {
	for i, candidate := range Letters {
		if candidate == l {
			return i
		}
	}
	return -1
}

// Lower is the form used in page element ids (odpa7, ansa7, ...).
func (l Letter) Lower() string {
	return strings.ToLower(string(l))
}

type Question struct {
	Ordinal int
	Raw     string
}

type AnswerOption struct {
	Letter    Letter
	Raw       string
	ElementID string
}

// Selection is the set of letters to mark, kept in A..D order.
type Selection []Letter

func NewSelection(marked [4]bool) Selection {
	sel := Selection{}
	for i, ok := range marked {
		if ok {
			sel = append(sel, Letters[i])
		}
	}
	return sel
}

func (s Selection) Has(l Letter) bool {
	for _, candidate := range s {
		if candidate == l {
			return true
		}
	}
	return false
}

func (s Selection) String() string {
	if len(s) == 0 {
		return "-"
	}
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

// QuestionResult is what the runner records for one ordinal.
type QuestionResult struct {
	Ordinal  int
	Question string
	Answers  []string
	Marked   Selection
}

type RunSummary struct {
	Browser    string
	Results    []QuestionResult
	Answered   int
	Unanswered int
}
