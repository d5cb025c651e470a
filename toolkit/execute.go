package toolkit

import (
	"context"
	"fmt"

	"github.com/semwaqas/MongoDB-toolkit/sampler"
	"github.com/semwaqas/MongoDB-toolkit/validate"
)

// ExecuteRequest is one validated query run against a collection.
type ExecuteRequest struct {
	Collection string              `json:"collection"`
	Filter     any                 `json:"filter"`
	Projection any                 `json:"projection,omitempty"`
	Sort       []sampler.SortField `json:"sort,omitempty"`
	Skip       int64               `json:"skip,omitempty"`
	Limit      int64               `json:"limit,omitempty"`
}

// Execute syntax-checks the filter and, if it passes, runs the query
// against the source. Validation warnings are logged and do not block
// execution; hard errors do, wrapped in ErrValidation.
func (t *Toolkit) Execute(ctx context.Context, req ExecuteRequest) ([]any, error) {
	if req.Collection == "" {
		return nil, fmt.Errorf("%w: collection name must not be empty", ErrConfiguration)
	}
	if req.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative, got %d", ErrConfiguration, req.Skip)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrConfiguration, req.Limit)
	}
	for _, sf := range req.Sort {
		if sf.Direction != 1 && sf.Direction != -1 {
			return nil, fmt.Errorf("%w: sort direction for %q must be 1 or -1, got %d", ErrConfiguration, sf.Field, sf.Direction)
		}
	}

	filter := req.Filter
	if filter == nil {
		filter = map[string]any{}
	}

	var hard []string
	for _, msg := range validate.Syntax(filter) {
		if validate.IsWarning(msg) {
			t.log.Warn("query validation warning", "collection", req.Collection, "warning", msg)
			continue
		}
		hard = append(hard, msg)
	}
	if len(hard) > 0 {
		return nil, fmt.Errorf("%w: %d problem(s), first: %s", ErrValidation, len(hard), hard[0])
	}

	docs, err := t.source.Find(ctx, req.Collection, sampler.FindRequest{
		Filter:     filter,
		Projection: req.Projection,
		Sort:       req.Sort,
		Skip:       req.Skip,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}

	t.log.Info("query executed", "collection", req.Collection, "returned", len(docs))
	return docs, nil
}
