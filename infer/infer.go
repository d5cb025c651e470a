// Package infer builds schema fragments from sampled document values and
// folds per-document fragments into a collection-level schema.
package infer

import (
	"log/slog"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
	"github.com/semwaqas/MongoDB-toolkit/merge"
)

// maxDepth caps recursion over adversarially nested documents. Sampled data
// is untrusted input; past this depth we record what we can and stop.
const maxDepth = 100

// Value infers the schema fragment describing a single value.
func Value(v any) *docschema.Node {
	return value(v, 0)
}

func value(v any, depth int) *docschema.Node {
	if depth > maxDepth {
		slog.Warn("infer: nesting depth limit reached, recording unknown")
		return docschema.Leaf(bsontype.Unknown)
	}

	t := bsontype.Of(v)
	switch t {
	case bsontype.Object:
		doc, ok := bsontype.AsDocument(v)
		if !ok {
			return docschema.Leaf(bsontype.Unknown)
		}
		obj := make(map[string]*docschema.Node, len(doc))
		for k, fv := range doc {
			obj[k] = value(fv, depth+1)
		}
		return &docschema.Node{Types: docschema.NewTypeSet(t), Object: obj}

	case bsontype.Array:
		arr, ok := bsontype.AsArray(v)
		if !ok {
			return docschema.Leaf(bsontype.Unknown)
		}
		if len(arr) == 0 {
			return &docschema.Node{
				Types:   docschema.NewTypeSet(t),
				Element: docschema.Leaf(bsontype.EmptyArray),
			}
		}
		var elem *docschema.Node
		for _, e := range arr {
			elem = merge.Nodes(elem, value(e, depth+1))
		}
		return &docschema.Node{Types: docschema.NewTypeSet(t), Element: elem}

	default:
		return docschema.Leaf(t)
	}
}
