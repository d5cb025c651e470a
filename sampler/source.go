// Package sampler provides document sources for schema inference and query
// execution: a live MongoDB-backed source and an in-memory static source for
// tests and offline runs.
package sampler

import "context"

// SortField orders query results on one field; Direction is 1 for ascending
// and -1 for descending.
type SortField struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

// FindRequest describes one read against a collection.
type FindRequest struct {
	Filter     any         `json:"filter"`
	Projection any         `json:"projection,omitempty"`
	Sort       []SortField `json:"sort,omitempty"`
	Skip       int64       `json:"skip,omitempty"`
	Limit      int64       `json:"limit,omitempty"`
}

// Source is a database the toolkit can sample documents from and run
// validated queries against.
type Source interface {
	// Collections lists the collection names of the configured database.
	Collections(ctx context.Context) ([]string, error)

	// Sample fetches up to n documents from a collection.
	Sample(ctx context.Context, collection string, n int) ([]any, error)

	// Find runs a filtered read against a collection.
	Find(ctx context.Context, collection string, req FindRequest) ([]any, error)

	Close(ctx context.Context) error
}
