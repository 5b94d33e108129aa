package store

import (
	"context"
)

const createFailure = `
INSERT INTO failures (video_id, type, reason)
VALUES (?, ?, ?)
ON CONFLICT (video_id) DO UPDATE SET type = excluded.type, reason = excluded.reason
`

type CreateFailureParams struct {
	VideoID string
	Type    string
	Reason  string
}

func (q *Queries) CreateFailure(ctx context.Context, arg CreateFailureParams) error {
	_, err := q.db.ExecContext(ctx, createFailure, arg.VideoID, arg.Type, arg.Reason)
	return err
}

const nextFailure = `
SELECT id, video_id, type, reason, created_at
FROM failures
WHERE id > ?
ORDER BY id
LIMIT 1
`

// NextFailure returns the oldest failure with an ID above afterID,
// sql.ErrNoRows once the queue is exhausted.
func (q *Queries) NextFailure(ctx context.Context, afterID int64) (Failure, error) {
	row := q.db.QueryRowContext(ctx, nextFailure, afterID)
	var i Failure
	err := row.Scan(
		&i.ID,
		&i.VideoID,
		&i.Type,
		&i.Reason,
		&i.CreatedAt,
	)
	return i, err
}

const deleteFailure = `
DELETE FROM failures
WHERE id = ?
`

func (q *Queries) DeleteFailure(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteFailure, id)
	return err
}

const countFailures = `
SELECT COUNT(*)
FROM failures
`

func (q *Queries) CountFailures(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFailures)
	var count int64
	err := row.Scan(&count)
	return count, err
}
