package digest_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/AstaRoggers/yt-summarizer/internal/digest"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"github.com/AstaRoggers/yt-summarizer/internal/summarize"
	"github.com/AstaRoggers/yt-summarizer/internal/tube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const videoId = "dQw4w9WgXcQ"

func newDB(t *testing.T) *store.Queries {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db))

	return store.New(db)
}

func fakeYouTube(t *testing.T) *tube.Client {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html>"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":`+
			`[{"baseUrl":"%s/api/timedtext","languageCode":"en"}]}},"videoDetails":{}</html>`, srv.URL)
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="0" dur="5">a long enough transcript about`+
			` testing patterns in go services and how to keep them hermetic</text></transcript>`)
	})

	return &tube.Client{WatchBase: srv.URL, HTTP: srv.Client()}
}

func fakeGemini(t *testing.T) *summarize.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":`+
			`"{\"summary\":\"A walkthrough of testing patterns in Go services.\",`+
			`\"terms\":[\"testing\",\"patterns\",\"go\"],`+
			`\"points\":[\"tests should be hermetic\",\"fixtures beat mocks\"]}"}]}}]}`)
	}))
	t.Cleanup(srv.Close)

	return &summarize.Client{
		Key:      "test-key",
		Model:    summarize.DefaultModel,
		Endpoint: srv.URL,
		HTTP:     srv.Client(),
	}
}

func TestVideoCachesSummary(t *testing.T) {
	ctx := context.Background()
	queries := newDB(t)
	digest.Queries = queries
	digest.Tube = fakeYouTube(t)
	digest.Gemini = fakeGemini(t)

	res, err := digest.Video(ctx, videoId)
	require.NoError(t, err)
	assert.Equal(t, "A walkthrough of testing patterns in Go services.", res.Summary)

	cached, err := queries.SummaryByVideo(ctx, videoId)
	require.NoError(t, err)
	assert.Equal(t, res.Summary, cached.Summary)
	assert.Equal(t, res.Terms, cached.TermList())
	assert.Equal(t, res.Points, cached.PointList())
	assert.Contains(t, cached.Searchable, "test pattern")
}

func TestVideoServedFromCacheWithoutUpstream(t *testing.T) {
	ctx := context.Background()
	queries := newDB(t)
	digest.Queries = queries

	// Both upstreams hard-fail, only the cache can answer.
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(down.Close)
	digest.Tube = &tube.Client{WatchBase: down.URL, HTTP: down.Client()}
	digest.Gemini = &summarize.Client{Key: "k", Model: "m", Endpoint: down.URL, HTTP: down.Client()}

	require.NoError(t, queries.CreateSummary(ctx, store.CreateSummaryParams{
		VideoID:    videoId,
		Summary:    "cached before",
		Terms:      `["cached"]`,
		Points:     `["still here"]`,
		Searchable: "cach still here",
	}))

	res, err := digest.Video(ctx, videoId)
	require.NoError(t, err)
	assert.Equal(t, "cached before", res.Summary)
	assert.Equal(t, []string{"cached"}, res.Terms)
}

func TestVideoRecordsFailure(t *testing.T) {
	ctx := context.Background()
	queries := newDB(t)
	digest.Queries = queries
	digest.Gemini = fakeGemini(t)

	noCaptions := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>a watch page without the marker</html>`)
	}))
	t.Cleanup(noCaptions.Close)
	digest.Tube = &tube.Client{WatchBase: noCaptions.URL, HTTP: noCaptions.Client()}

	_, err := digest.Video(ctx, videoId)
	require.ErrorIs(t, err, tube.ErrNoCaptions)

	failure, err := queries.NextFailure(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, videoId, failure.VideoID)
	assert.Equal(t, string(store.FailureTypeNoCaptions), failure.Type)

	// A second failed attempt refreshes the entry instead of stacking up.
	_, err = digest.Video(ctx, videoId)
	require.Error(t, err)
	count, err := queries.CountFailures(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
