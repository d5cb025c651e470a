// Package toolkit ties the schema and validation pieces together over a
// document source: sample a collection, infer its schema, validate filter
// documents against it, and run vetted queries.
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/semwaqas/MongoDB-toolkit/docschema"
	"github.com/semwaqas/MongoDB-toolkit/infer"
	"github.com/semwaqas/MongoDB-toolkit/sampler"
	"github.com/semwaqas/MongoDB-toolkit/validate"
)

// DefaultSampleSize is how many documents a schema run samples per
// collection when the caller does not say otherwise.
const DefaultSampleSize = 100

// Sentinel errors wrapped by Toolkit methods; match with errors.Is.
var (
	ErrConfiguration = errors.New("toolkit configuration error")
	ErrSchema        = errors.New("schema inference error")
	ErrValidation    = errors.New("query validation error")
	ErrExecution     = errors.New("query execution error")
)

type Toolkit struct {
	source sampler.Source
	log    *slog.Logger
}

// New wires a Toolkit over a document source. A nil logger falls back to
// slog.Default.
func New(source sampler.Source, log *slog.Logger) (*Toolkit, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source must not be nil", ErrConfiguration)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Toolkit{source: source, log: log}, nil
}

// CollectionSchema samples one collection and returns its inferred schema
// along with the run report. sampleSize <= 0 means DefaultSampleSize.
func (t *Toolkit) CollectionSchema(ctx context.Context, collection string, sampleSize int) (map[string]*docschema.Node, *infer.Report, error) {
	if collection == "" {
		return nil, nil, fmt.Errorf("%w: collection name must not be empty", ErrConfiguration)
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	names, err := t.source.Collections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing collections: %w", ErrSchema, err)
	}
	if !contains(names, collection) {
		return nil, nil, fmt.Errorf("%w: collection %q not found", ErrSchema, collection)
	}

	docs, err := t.source.Sample(ctx, collection, sampleSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: sampling %q: %w", ErrSchema, collection, err)
	}

	schema, rep := infer.Collection(docs)
	t.log.Info("inferred collection schema",
		"collection", collection,
		"runID", rep.RunID,
		"analyzed", rep.Analyzed,
		"skipped", rep.Skipped)
	for _, d := range rep.Diagnostics {
		t.log.Warn("schema inference diagnostic", "collection", collection, "diagnostic", d)
	}
	return schema, rep, nil
}

// DatabaseSchema infers a schema for every collection in the database.
// Collections with no sampled documents are skipped with a diagnostic
// rather than reported as empty schemas.
func (t *Toolkit) DatabaseSchema(ctx context.Context, sampleSize int) (map[string]map[string]*docschema.Node, []string, error) {
	names, err := t.source.Collections(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing collections: %w", ErrSchema, err)
	}

	schemas := make(map[string]map[string]*docschema.Node, len(names))
	var diags []string
	for _, name := range names {
		schema, rep, err := t.CollectionSchema(ctx, name, sampleSize)
		if err != nil {
			diags = append(diags, fmt.Sprintf("collection %q: %v", name, err))
			continue
		}
		if rep.Analyzed == 0 {
			diags = append(diags, fmt.Sprintf("collection %q: no documents sampled", name))
			continue
		}
		schemas[name] = schema
		diags = append(diags, rep.Diagnostics...)
	}
	return schemas, diags, nil
}

// ValidateSyntax checks a query filter structurally.
func (t *Toolkit) ValidateSyntax(query any) []string {
	return validate.Syntax(query)
}

// ValidateAgainstSchema checks a query filter against a schema snapshot.
func (t *Toolkit) ValidateAgainstSchema(query any, schema map[string]*docschema.Node) []string {
	return validate.AgainstSchema(query, schema)
}

func contains(ss []string, s string) bool {
	for _, e := range ss {
		if e == s {
			return true
		}
	}
	return false
}
