package search_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/AstaRoggers/yt-summarizer/internal/search"
	"github.com/AstaRoggers/yt-summarizer/internal/stem"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func seed(t *testing.T) *store.Queries {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db))

	queries := store.New(db)
	ctx := context.Background()

	rows := []struct{ id, summary string }{
		{"vid00000001", "A video about testing patterns in Go."},
		// Contains both words, but never as a phrase.
		{"vid00000002", "Patterns of butterflies, and later some testing of wings."},
		{"vid00000003", "Completely unrelated cooking content."},
	}
	for _, row := range rows {
		require.NoError(t, queries.CreateSummary(ctx, store.CreateSummaryParams{
			VideoID:    row.id,
			Summary:    row.summary,
			Terms:      `[]`,
			Points:     `[]`,
			Searchable: stem.StemLine(row.summary),
		}))
	}

	return queries
}

func TestSummariesMatchesStemmedPhrase(t *testing.T) {
	search.Queries = seed(t)

	// "Tested Pattern" stems to the same phrase as "testing patterns".
	res, err := search.Summaries(context.Background(), "Tested Pattern")
	require.NoError(t, err)

	require.Len(t, res, 1)
	assert.Equal(t, "vid00000001", res[0].VideoID)
	assert.Equal(t, "A video about testing patterns in Go.", res[0].Summary)
}

func TestSummariesRejectsScatteredWords(t *testing.T) {
	search.Queries = seed(t)

	// Both words appear in vid00000002, just not next to each other, so the
	// optimistic store match must be filtered out.
	res, err := search.Summaries(context.Background(), "testing patterns")
	require.NoError(t, err)

	require.Len(t, res, 1)
	assert.Equal(t, "vid00000001", res[0].VideoID)
}

func TestSummariesNoMatches(t *testing.T) {
	search.Queries = seed(t)

	res, err := search.Summaries(context.Background(), "quantum chromodynamics")
	require.NoError(t, err)
	assert.Empty(t, res)
}
