package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createKey(t *testing.T, rows [][2]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "EE08.sqlite")
	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE EE08 (question TEXT, answer TEXT)`)
	require.NoError(t, err)
	for _, row := range rows {
		_, err = db.Exec(`INSERT INTO EE08 (question, answer) VALUES (?, ?)`, row[0], row[1])
		require.NoError(t, err)
	}
	return path
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	path := createKey(t, [][2]string{
		{"What is RAM?", "Random Access Memory"},
		{"Pick two true statements", "X"},
		{"Pick two true statements", "Y"},
		{"Pick two true statements", "X"},
	})

	s, err := Open(ctx, path, "EE08")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Lookup(ctx, "What is RAM?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Random Access Memory"}, got)

	got, err = s.Lookup(ctx, "Pick two true statements")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"X", "Y"}, got)

	again, err := s.Lookup(ctx, "Pick two true statements")
	require.NoError(t, err)
	assert.ElementsMatch(t, got, again)
}

func TestLookupIsExact(t *testing.T) {
	ctx := context.Background()
	path := createKey(t, [][2]string{{"What is RAM?", "Random Access Memory"}})

	s, err := Open(ctx, path, "EE08")
	require.NoError(t, err)
	defer s.Close()

	for _, key := range []string{"what is ram?", "What is RAM", " What is RAM?", "What is RAM? "} {
		got, err := s.Lookup(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, got, "key %q should not match", key)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.sqlite"), "EE08")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestOpenMissingTable(t *testing.T) {
	path := createKey(t, nil)
	_, err := Open(context.Background(), path, "INF02")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestInvalidTableName(t *testing.T) {
	_, err := New(nil, `EE08"; DROP TABLE EE08; --`)
	assert.Error(t, err)
}

func TestLookupAfterClose(t *testing.T) {
	ctx := context.Background()
	path := createKey(t, nil)

	s, err := Open(ctx, path, "EE08")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Lookup(ctx, "anything")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestPingWrapsFailures(t *testing.T) {
	ctx := context.Background()
	path := createKey(t, nil)

	s, err := Open(ctx, path, "EE08")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(ctx), ErrStoreUnavailable)

	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()
	missing, err := New(db, "INF02")
	require.NoError(t, err)
	assert.ErrorIs(t, missing.Ping(ctx), ErrStoreUnavailable)
}
