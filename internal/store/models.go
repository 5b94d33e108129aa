package store

import "time"

type Summary struct {
	VideoID string
	Summary string
	// Terms and Points are JSON string arrays as returned by the model.
	Terms  string
	Points string
	// Searchable is the stemmed summary text, see the search package.
	Searchable string
	CreatedAt  time.Time
}

type Failure struct {
	ID        int64
	VideoID   string
	Type      string
	Reason    string
	CreatedAt time.Time
}
