package sampler

import (
	"context"
	"fmt"
	"sort"
)

// StaticSource serves documents from memory, keyed by collection name. It
// backs tests and offline schema runs; Find applies only skip and limit,
// filters and sorts are ignored.
type StaticSource map[string][]any

var _ Source = (StaticSource)(nil)

func (s StaticSource) Collections(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s StaticSource) Sample(_ context.Context, collection string, n int) ([]any, error) {
	docs, in := s[collection]
	if !in {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	if n < len(docs) {
		docs = docs[:n]
	}
	return docs, nil
}

func (s StaticSource) Find(_ context.Context, collection string, req FindRequest) ([]any, error) {
	docs, in := s[collection]
	if !in {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	if req.Skip > 0 {
		if req.Skip >= int64(len(docs)) {
			return nil, nil
		}
		docs = docs[req.Skip:]
	}
	if req.Limit > 0 && req.Limit < int64(len(docs)) {
		docs = docs[:req.Limit]
	}
	return docs, nil
}

func (s StaticSource) Close(_ context.Context) error { return nil }
