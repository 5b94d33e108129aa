// Package failures reprocesses videos whose summarization failed earlier,
// for example because YouTube or the generative API was briefly unreachable.
package failures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/AstaRoggers/yt-summarizer/internal/digest"
	"github.com/AstaRoggers/yt-summarizer/internal/store"
)

var Queries *store.Queries

// Process walks the failure queue oldest first, re-running the pipeline for
// every entry. Entries that now succeed are deleted, the rest stay queued
// (digest refreshes their reason).
func Process(ctx context.Context) error {
	count, err := Queries.CountFailures(ctx)
	if err != nil {
		return fmt.Errorf("counting failures: %w", err)
	}
	log.Printf("[INFO]: %d failures in the queue", count)

	var last int64
	for {
		failure, err := Queries.NextFailure(ctx, last)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting next failure: %w", err)
		}
		last = failure.ID

		log.Printf("[INFO]: retrying %q (%s: %s)", failure.VideoID, failure.Type, failure.Reason)
		if _, err := digest.Video(ctx, failure.VideoID); err != nil {
			log.Printf("[WARN]: %q still failing: %v", failure.VideoID, err)
			continue
		}

		if err := Queries.DeleteFailure(ctx, failure.ID); err != nil {
			return fmt.Errorf("deleting processed failure: %w", err)
		}
		log.Printf("[INFO]: %q summarized, failure cleared", failure.VideoID)
	}
}
