// Package digest owns the transcript to summary pipeline: scrape captions,
// ask the model for a summary, cache the result.
package digest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/AstaRoggers/yt-summarizer/internal/stem"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"github.com/AstaRoggers/yt-summarizer/internal/summarize"
	"github.com/AstaRoggers/yt-summarizer/internal/tube"
)

var (
	// Wired from main. Queries may be nil, in which case no caching and no
	// failure bookkeeping happens.
	Queries *store.Queries
	Tube    *tube.Client
	Gemini  *summarize.Client
)

// Video runs the full pipeline for videoId. The cache is consulted first, a
// hit skips both the scrape and the model call. The four fetch/parse stages
// are strictly sequential, each needs the previous stage's output.
//
// Failures past the URL stage are recorded in the failures table so the
// `failures` subcommand can retry them later.
func Video(ctx context.Context, videoId string) (*summarize.Result, error) {
	if cached := fromCache(ctx, videoId); cached != nil {
		log.Printf("[INFO]: summary for %q served from cache", videoId)
		return cached, nil
	}

	transcript, err := Tube.Transcript(videoId)
	if err != nil {
		recordFailure(ctx, videoId, err)
		return nil, fmt.Errorf("fetching transcript of %q: %w", videoId, err)
	}

	res, err := Gemini.Summarize(ctx, transcript)
	if err != nil {
		recordFailure(ctx, videoId, err)
		return nil, fmt.Errorf("summarizing %q: %w", videoId, err)
	}

	cache(ctx, videoId, res)
	return res, nil
}

func fromCache(ctx context.Context, videoId string) *summarize.Result {
	if Queries == nil {
		return nil
	}

	s, err := Queries.SummaryByVideo(ctx, videoId)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[WARN]: summary cache lookup for %q: %v", videoId, err)
		}
		return nil
	}

	return &summarize.Result{
		Summary: s.Summary,
		Terms:   s.TermList(),
		Points:  s.PointList(),
	}
}

// cache stores the summary. Best effort: the response does not depend on it.
func cache(ctx context.Context, videoId string, res *summarize.Result) {
	if Queries == nil {
		return
	}

	terms, err := json.Marshal(res.Terms)
	if err != nil {
		log.Printf("[WARN]: marshalling terms of %q: %v", videoId, err)
		return
	}
	points, err := json.Marshal(res.Points)
	if err != nil {
		log.Printf("[WARN]: marshalling points of %q: %v", videoId, err)
		return
	}

	searchable := stem.StemLine(
		res.Summary + " " + strings.Join(res.Terms, " ") + " " + strings.Join(res.Points, " "),
	)

	if err := Queries.CreateSummary(ctx, store.CreateSummaryParams{
		VideoID:    videoId,
		Summary:    res.Summary,
		Terms:      string(terms),
		Points:     string(points),
		Searchable: searchable,
	}); err != nil {
		log.Printf("[WARN]: caching summary of %q: %v", videoId, err)
	}
}

func recordFailure(ctx context.Context, videoId string, cause error) {
	if Queries == nil {
		return
	}

	// A missing API key is a deployment problem, retrying won't help.
	if errors.Is(cause, summarize.ErrNoKey) {
		return
	}

	typ := store.FailureTypeUpstream
	switch {
	case errors.Is(cause, tube.ErrNoCaptions),
		errors.Is(cause, tube.ErrNoTrack),
		errors.Is(cause, tube.ErrTooShort):
		typ = store.FailureTypeNoCaptions
	case errors.Is(cause, summarize.ErrNotJSON):
		typ = store.FailureTypeBadOutput
	}

	if err := Queries.CreateFailure(ctx, store.CreateFailureParams{
		VideoID: videoId,
		Type:    string(typ),
		Reason:  cause.Error(),
	}); err != nil {
		log.Printf("[WARN]: recording failure for %q: %v", videoId, err)
	}
}
