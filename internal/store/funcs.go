package store

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// TermList decodes the stored terms JSON array, nil when it is malformed.
func (s *Summary) TermList() []string {
	return decodeList(s.Terms)
}

// PointList decodes the stored points JSON array, nil when it is malformed.
func (s *Summary) PointList() []string {
	return decodeList(s.Points)
}

func decodeList(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("[WARN]: malformed list column %q: %v", raw, err)
		return nil
	}
	return list
}

// SummariesWithWords retrieves summaries that might match a query,
// words must be stemmed. These are optimistic matches: the words can appear
// anywhere, callers have to verify the exact phrase afterwards.
func (q *Queries) SummariesWithWords(ctx context.Context, words []string) ([]Summary, error) {
	if len(words) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		log.Printf("[INFO]: summaries query took %s", time.Since(start))
	}()

	query := "SELECT video_id, summary, terms, points, searchable, created_at FROM summaries WHERE 1=1"
	for _, word := range words {
		// NOTE: this would be dangerous for sql injection, but stemming removes all
		// the special characters that are able to do that already, so this should be safe.
		query += " AND searchable LIKE \"%" + word + "%\""
	}
	query += ";"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Summary
	for rows.Next() {
		var i Summary
		if err := rows.Scan(
			&i.VideoID,
			&i.Summary,
			&i.Terms,
			&i.Points,
			&i.Searchable,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
