package validate

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
)

// maxDepth bounds recursion over adversarially nested query documents.
const maxDepth = 100

type field struct {
	key   string
	value any
}

// documentFields returns the entries of a document value in a deterministic
// order: bson.D documents keep their declared order, map-backed documents are
// walked in sorted key order so repeated runs report identical error lists.
func documentFields(v any) ([]field, bool) {
	if d, ok := v.(bson.D); ok {
		fs := make([]field, len(d))
		for i, e := range d {
			fs[i] = field{key: e.Key, value: e.Value}
		}
		return fs, true
	}

	m, ok := bsontype.AsDocument(v)
	if !ok {
		return nil, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := make([]field, len(keys))
	for i, k := range keys {
		fs[i] = field{key: k, value: m[k]}
	}
	return fs, true
}

func isDocument(v any) bool {
	return bsontype.Of(v) == bsontype.Object
}

func isSequence(v any) bool {
	return bsontype.Of(v) == bsontype.Array
}

func isRegex(v any) bool {
	return bsontype.Of(v) == bsontype.Regex
}

func isInteger(v any) bool {
	t := bsontype.Of(v)
	return t == bsontype.Int || t == bsontype.Long
}

func isNumber(v any) bool {
	return bsontype.Of(v).Numeric()
}

func isString(v any) bool {
	return bsontype.Of(v) == bsontype.String
}

func isBool(v any) bool {
	return bsontype.Of(v) == bsontype.Bool
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// typeCompatible applies the deliberate leniencies of schema-aware checks:
// exact membership, null when null is allowed, and the numeric family
// (int/long/double/decimal) treated as interchangeable whenever the allowed
// set contains any numeric tag.
func typeCompatible(t bsontype.Type, allowed docschema.TypeSet) bool {
	if allowed.Has(t) {
		return true
	}
	return t.Numeric() && allowed.HasNumeric()
}

func describeTypes(allowed docschema.TypeSet) string {
	ts := allowed.Sorted()
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = string(t)
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

// IsWarning reports whether a validation message is a non-fatal usage
// warning rather than a hard error.
func IsWarning(msg string) bool {
	return strings.HasPrefix(msg, "warning: ")
}

func warningf(format string, args ...any) string {
	return "warning: " + fmt.Sprintf(format, args...)
}
