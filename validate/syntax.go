package validate

import (
	"fmt"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
)

// Syntax validates the structure of a query filter document without any
// schema: known operators only, operator values of the expected shape, and
// no mixing of operators with field names at one level. Field names and
// value types are not checked against anything — that is AgainstSchema's
// job.
func Syntax(query any) []string {
	if !isDocument(query) {
		return []string{fmt.Sprintf("query document must be a document, got %s", bsontype.Of(query))}
	}

	var errs []string
	syntaxWalk(query, &errs, "", 0)
	return errs
}

func syntaxWalk(part any, errs *[]string, prefix string, depth int) {
	if depth > maxDepth {
		*errs = append(*errs, fmt.Sprintf("maximum nesting depth exceeded at '%s'", prefix))
		return
	}

	fs, ok := documentFields(part)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("invalid structure at '%s': expected a document, got %s", prefix, bsontype.Of(part)))
		return
	}

	for _, f := range fs {
		path := joinPath(prefix, f.key)

		if isOperatorKey(f.key) {
			if !knownOperator(f.key) {
				*errs = append(*errs, fmt.Sprintf("unknown operator '%s' at '%s'", f.key, path))
				continue
			}
			syntaxOperator(f.key, f.value, errs, path, depth)
			continue
		}

		syntaxField(f.key, f.value, errs, prefix, path, depth)
	}
}

func syntaxOperator(op string, value any, errs *[]string, path string, depth int) {
	switch op {
	case "$and", "$or", "$nor":
		arr, ok := bsontype.AsArray(value)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array of query documents", op, path))
			return
		}
		if len(arr) == 0 {
			*errs = append(*errs, warningf("operator '%s' at '%s' has an empty array", op, path))
			return
		}
		for i, sub := range arr {
			syntaxWalk(sub, errs, indexPath(path, i), depth+1)
		}

	case "$not":
		if !isDocument(value) && !isRegex(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an operator expression document or a regex", op, path))
			return
		}
		if isDocument(value) {
			syntaxWalk(value, errs, path, depth+1)
		}

	case "$in", "$nin", "$all":
		if !isSequence(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array", op, path))
		}

	case "$elemMatch":
		if !isDocument(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a query document", op, path))
			return
		}
		syntaxWalk(value, errs, path, depth+1)

	case "$exists":
		if !isBool(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a boolean", op, path))
		}

	case "$type":
		if !validTypeSpec(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a type name, a type number, or an array of them", op, path))
		}

	case "$size":
		if !isInteger(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an integer", op, path))
		}

	case "$regex":
		if !isString(value) && !isRegex(value) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a string or regex", op, path))
		}

	case "$mod":
		arr, ok := bsontype.AsArray(value)
		if !ok || len(arr) != 2 || !isNumber(arr[0]) || !isNumber(arr[1]) {
			*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array of two numbers [divisor, remainder]", op, path))
		}

	default:
		// Comparison, geo, text, bitwise and comment operators impose no
		// further structural constraint without a schema.
	}
}

func syntaxField(key string, value any, errs *[]string, prefix, path string, depth int) {
	if key == "" {
		*errs = append(*errs, fmt.Sprintf("empty field name at '%s'", prefix))
		return
	}

	if !isDocument(value) {
		// Scalar, array or regex: an implicit equality match, nothing left
		// to check without a schema.
		return
	}

	fs, _ := documentFields(value)
	hasOperators := false
	hasFields := false
	for _, f := range fs {
		if isOperatorKey(f.key) {
			hasOperators = true
		} else {
			hasFields = true
		}
	}

	if hasOperators && hasFields {
		*errs = append(*errs, fmt.Sprintf("invalid query structure at '%s': cannot mix operators and field names at the same level", path))
		return
	}
	if hasOperators || hasFields {
		syntaxWalk(value, errs, path, depth+1)
	}
	// An empty document matches field presence of an empty object; valid.
}

func validTypeSpec(value any) bool {
	if isString(value) || isInteger(value) {
		return true
	}
	arr, ok := bsontype.AsArray(value)
	if !ok {
		return false
	}
	for _, e := range arr {
		if !isString(e) && !isInteger(e) {
			return false
		}
	}
	return true
}
