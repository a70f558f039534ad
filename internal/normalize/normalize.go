// Package normalize turns scraped question and option labels into the text
// used as the answer key. The page prefixes every question with its ordinal
// ("7. ", "23. ") and every option with its letter ("A. ").
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedInput means the scraped text does not carry the expected prefix.
var ErrMalformedInput = errors.New("malformed scraped text")

type Role int

const (
	RoleQuestion Role = iota
	RoleOption
)

func (r Role) String() string {
	switch r {
	case RoleQuestion:
		return "question"
	case RoleOption:
		return "option"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

type Normalizer interface {
	Normalize(raw string, role Role, ordinal int) (string, error)
}

// Positional strips a fixed number of leading characters: 3 for questions
// 1..9 and for every option, 4 for questions 10 and above.
type Positional struct{}

func (Positional) Normalize(raw string, role Role, ordinal int) (string, error) {
	if ordinal < 1 {
		return "", fmt.Errorf("%w: %s ordinal %d out of range", ErrMalformedInput, role, ordinal)
	}

	width, err := StripWidth(role, ordinal)
	if err != nil {
		return "", err
	}

	stripped, ok := dropRunes(raw, width)
	if !ok {
		return "", fmt.Errorf("%w: %s %d %q shorter than %d-character prefix", ErrMalformedInput, role, ordinal, raw, width)
	}
	return stripped, nil
}

// StripWidth reports how many leading characters Positional removes.
func StripWidth(role Role, ordinal int) (int, error) {
	switch role {
	case RoleQuestion:
		if ordinal < 10 {
			return 3, nil
		}
		return 4, nil
	case RoleOption:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %s", ErrMalformedInput, role)
	}
}

func dropRunes(s string, n int) (string, bool) {
	for i := 0; i < n; i++ {
		if s == "" {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s, true
}

// Separator drops everything up to and including the first separator,
// so label width does not matter.
type Separator struct {
	Sep string
}

const DefaultSeparator = ". "

func (s Separator) Normalize(raw string, role Role, ordinal int) (string, error) {
	if ordinal < 1 {
		return "", fmt.Errorf("%w: %s ordinal %d out of range", ErrMalformedInput, role, ordinal)
	}

	sep := s.Sep
	if sep == "" {
		sep = DefaultSeparator
	}

	_, rest, found := strings.Cut(raw, sep)
	if !found {
		return "", fmt.Errorf("%w: %s %d %q has no %q separator", ErrMalformedInput, role, ordinal, raw, sep)
	}
	return rest, nil
}

// ByName returns the normalizer configured under name.
func ByName(name string) (Normalizer, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", "positional":
		return Positional{}, nil
	case "separator":
		return Separator{Sep: DefaultSeparator}, nil
	default:
		return nil, fmt.Errorf("unknown normalizer %q", name)
	}
}
