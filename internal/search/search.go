// Package search finds previously generated summaries matching a query.
package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/AstaRoggers/yt-summarizer/internal/stem"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"golang.org/x/sync/errgroup"
)

var (
	Queries        *store.Queries
	SearchRoutines = 8
	MaxResults     = 50
)

type Result struct {
	VideoID string   `json:"videoId"`
	Summary string   `json:"summary"`
	Terms   []string `json:"terms"`
	Points  []string `json:"points"`
}

// Summaries searches the cached summaries for query, newest first.
//
// The store returns optimistic matches (every stemmed word appears
// somewhere), those are then verified to contain the exact stemmed phrase.
// The query and the stored text are both stemmed, so different "styles" of
// the same word will match.
func Summaries(ctx context.Context, query string) ([]Result, error) {
	candidates, err := Queries.SummariesWithWords(ctx, stem.StemLineWords(query))
	if err != nil {
		return nil, fmt.Errorf("retrieving candidate summaries: %w", err)
	}

	log.Printf("[INFO]: verifying %d optimistic summary matches", len(candidates))
	phrase := stem.StemLine(query)
	var group errgroup.Group
	group.SetLimit(SearchRoutines)
	var mu sync.Mutex
	var matches []store.Summary
	for _, cand := range candidates {
		cand := cand
		group.Go(func() error {
			if !strings.Contains(cand.Searchable, phrase) {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			matches = append(matches, cand)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("verifying matches: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[j].CreatedAt.Before(matches[i].CreatedAt)
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}

	res := make([]Result, len(matches))
	for i, m := range matches {
		res[i] = Result{
			VideoID: m.VideoID,
			Summary: m.Summary,
			Terms:   m.TermList(),
			Points:  m.PointList(),
		}
	}

	return res, nil
}
