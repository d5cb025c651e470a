// Package merge folds schema fragments together. The fold is commutative,
// associative and idempotent, so callers are free to combine per-document or
// per-element fragments in any order (or in parallel) and land on the same
// schema.
//
// Merging is also total: schema discovery runs over uncontrolled sampled
// data, so invalid or partial fragments must degrade the result, never abort
// it. When one side is unusable we keep the other and log; when neither is
// usable we hand back an "unknown" placeholder.
package merge

import (
	"log/slog"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
)

// Nodes merges two schema fragments into a fresh node. Inputs are never
// mutated.
func Nodes(a, b *docschema.Node) *docschema.Node {
	if !a.Valid() && !b.Valid() {
		if a != nil || b != nil {
			slog.Warn("merge: neither side is a valid schema node")
			return docschema.Leaf(bsontype.Unknown)
		}
		return nil
	}
	if a.Valid() && !b.Valid() {
		if b != nil {
			slog.Warn("merge: dropping invalid right-hand schema node")
		}
		return a
	}
	if !a.Valid() {
		if a != nil {
			slog.Warn("merge: dropping invalid left-hand schema node")
		}
		return b
	}

	res := &docschema.Node{Types: a.Types.Clone()}
	for t := range b.Types {
		res.Types.Add(t)
	}
	res.Object = Fields(a.Object, b.Object)
	res.Element = elements(a.Element, b.Element)
	return res
}

// Fields merges two field-name-to-node maps key-wise. Keys present on only
// one side pass through; shared keys merge recursively. This is both the
// object-schema merge and the collection-level aggregate merge.
func Fields(a, b map[string]*docschema.Node) map[string]*docschema.Node {
	if a == nil && b == nil {
		return nil
	}
	if a != nil && b == nil {
		return a
	}
	if a == nil {
		return b
	}

	res := make(map[string]*docschema.Node, max(len(a), len(b)))

	visited := make(map[string]struct{}, len(a))
	for k, v := range a {
		visited[k] = struct{}{}
		if w, in := b[k]; in {
			res[k] = Nodes(v, w)
		} else {
			res[k] = v
		}
	}

	for k, v := range b {
		if _, in := visited[k]; in {
			continue
		}
		res[k] = v
	}

	return res
}

func elements(a, b *docschema.Node) *docschema.Node {
	if a == nil && b == nil {
		return nil
	}
	if a != nil && b == nil {
		return a
	}
	if a == nil {
		return b
	}

	m := Nodes(a, b)

	// empty_array meant "no element seen yet"; a real type supersedes it.
	if m.Types.Has(bsontype.EmptyArray) && len(m.Types) > 1 {
		ts := m.Types.Clone()
		delete(ts, bsontype.EmptyArray)
		m = &docschema.Node{Types: ts, Object: m.Object, Element: m.Element}
	}

	return m
}
