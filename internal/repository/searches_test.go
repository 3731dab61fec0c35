package repository

import (
	"context"
	"database/sql"
	"testing"

	"lms-tracker/internal/database"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, zerolog.Nop()))
	return db
}

func TestSearchRecordAndList(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "alice"))
	require.NoError(t, repo.Record(ctx, "bob"))

	terms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, terms)
}

func TestSearchDeduplicatesAndPromotes(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "alice"))
	require.NoError(t, repo.Record(ctx, "bob"))
	require.NoError(t, repo.Record(ctx, "alice"))

	terms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, terms)
}

func TestSearchListIsBounded(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	for _, term := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		require.NoError(t, repo.Record(ctx, term))
	}

	terms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, terms)
}

func TestSearchClear(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "alice"))
	require.NoError(t, repo.Clear(ctx))

	terms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, "", repo.Token(ctx))

	require.NoError(t, repo.Save(ctx, "alice", "token-1"))
	assert.Equal(t, "token-1", repo.Token(ctx))

	require.NoError(t, repo.Save(ctx, "alice", "token-2"))
	assert.Equal(t, "token-2", repo.Token(ctx))

	require.NoError(t, repo.Clear(ctx))
	assert.Equal(t, "", repo.Token(ctx))
}

func TestSessionTokenLoadedFromDisk(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewSessionRepository(db, zerolog.Nop()).Save(ctx, "alice", "persisted"))

	// A fresh repository over the same database lazily loads the token.
	fresh := NewSessionRepository(db, zerolog.Nop())
	assert.Equal(t, "persisted", fresh.Token(ctx))
}
