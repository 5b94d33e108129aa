package store

import (
	"context"
)

const createSummary = `
INSERT INTO summaries (video_id, summary, terms, points, searchable)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (video_id) DO NOTHING
`

type CreateSummaryParams struct {
	VideoID    string
	Summary    string
	Terms      string
	Points     string
	Searchable string
}

func (q *Queries) CreateSummary(ctx context.Context, arg CreateSummaryParams) error {
	_, err := q.db.ExecContext(ctx, createSummary,
		arg.VideoID,
		arg.Summary,
		arg.Terms,
		arg.Points,
		arg.Searchable,
	)
	return err
}

const summaryByVideo = `
SELECT video_id, summary, terms, points, searchable, created_at
FROM summaries
WHERE video_id = ?
`

func (q *Queries) SummaryByVideo(ctx context.Context, videoID string) (Summary, error) {
	row := q.db.QueryRowContext(ctx, summaryByVideo, videoID)
	var i Summary
	err := row.Scan(
		&i.VideoID,
		&i.Summary,
		&i.Terms,
		&i.Points,
		&i.Searchable,
		&i.CreatedAt,
	)
	return i, err
}
