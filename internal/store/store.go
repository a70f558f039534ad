package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	_ "modernc.org/sqlite" // driver: sqlite
)

// ErrStoreUnavailable wraps every failure coming from the answer database.
var ErrStoreUnavailable = errors.New("answer store unavailable")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AnswerStore returns every stored answer for an exact question text.
type AnswerStore interface {
	Lookup(ctx context.Context, question string) ([]string, error)
}

type SQLiteStore struct {
	db    *sql.DB
	query string
}

// Open opens the answer key read-only and checks that the table is readable.
func Open(ctx context.Context, path, table string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStoreUnavailable)
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, path, err)
	}

	s, err := New(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection; the caller keeps ownership of schema and rows.
func New(db *sql.DB, table string) (*SQLiteStore, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid answer table name %q", table)
	}
	return &SQLiteStore{
		db:    db,
		query: fmt.Sprintf(`SELECT answer FROM "%s" WHERE question = ?`, table),
	}, nil
}

// Ping runs the lookup query once so a missing file or table fails early.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	rows, err := s.db.QueryContext(ctx, s.query+" LIMIT 0", "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, question string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.query, question)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %q: %w", ErrStoreUnavailable, question, err)
	}
	defer rows.Close()

	seen := map[string]struct{}{}
	answers := []string{}
	for rows.Next() {
		var answer sql.NullString
		if err := rows.Scan(&answer); err != nil {
			return nil, fmt.Errorf("%w: scan answer: %w", ErrStoreUnavailable, err)
		}
		if !answer.Valid {
			continue
		}
		if _, exists := seen[answer.String]; exists {
			continue
		}
		seen[answer.String] = struct{}{}
		answers = append(answers, answer.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read answers: %w", ErrStoreUnavailable, err)
	}

	return answers, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
