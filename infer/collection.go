package infer

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
	"github.com/semwaqas/MongoDB-toolkit/merge"
)

// Report summarizes one aggregation run: how many documents contributed, how
// many were skipped, and why. A skipped document is a diagnostic, never a
// failure — partial schema from the rest of the sample beats no schema.
type Report struct {
	RunID       uuid.UUID `json:"runID"`
	Analyzed    int       `json:"analyzed"`
	Skipped     int       `json:"skipped"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped++
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// Collection folds the schemas of already-fetched sample documents into one
// collection-level schema, keyed by top-level field name.
//
// An empty sample yields an empty (non-nil) map: "no sample available" rather
// than "collection confirmed to have no fields". Documents that are not
// objects are skipped with a diagnostic on the report.
func Collection(docs []any) (map[string]*docschema.Node, *Report) {
	rep := &Report{RunID: uuid.New()}
	fields := make(map[string]*docschema.Node)

	for i, doc := range docs {
		if t := bsontype.Of(doc); t != bsontype.Object {
			rep.skip("document %d: expected an object, got %s", i, t)
			continue
		}

		n := Value(doc)
		if !n.Valid() || !n.Types.Has(bsontype.Object) || n.Object == nil {
			rep.skip("document %d: inference did not produce an object schema", i)
			continue
		}

		keys := make([]string, 0, len(n.Object))
		for k := range n.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if cur, in := fields[k]; in {
				fields[k] = merge.Nodes(cur, n.Object[k])
			} else {
				fields[k] = n.Object[k]
			}
		}
		rep.Analyzed++
	}

	return fields, rep
}
