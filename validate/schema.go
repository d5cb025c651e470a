package validate

import (
	"fmt"
	"strings"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
)

// AgainstSchema validates a query filter document against an inferred
// collection schema: dotted field paths must resolve through nested object
// schemas, and operator values must be type-compatible with the field they
// target. The numeric types int/long/double/decimal are treated as
// interchangeable whenever the schema allows any of them.
//
// $not is only checked shallowly: the schema context of the field it negates
// is not available at that point in the walk, so its contents get a
// structural check and, at most, a warning.
func AgainstSchema(query any, schema map[string]*docschema.Node) []string {
	if !isDocument(query) {
		return []string{fmt.Sprintf("query document must be a document, got %s", bsontype.Of(query))}
	}

	var errs []string
	schemaWalk(query, schema, &errs, "", schema, 0)
	return errs
}

// schemaWalk validates one filter document level. schema is the object
// schema in scope at this level; full stays the top-level schema so that
// logical operators can restart resolution from the root.
func schemaWalk(part any, schema map[string]*docschema.Node, errs *[]string, prefix string, full map[string]*docschema.Node, depth int) {
	if depth > maxDepth {
		*errs = append(*errs, fmt.Sprintf("maximum nesting depth exceeded at '%s'", prefix))
		return
	}

	fs, ok := documentFields(part)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("invalid query structure at '%s': expected a document, got %s", prefix, bsontype.Of(part)))
		return
	}

	for _, f := range fs {
		path := joinPath(prefix, f.key)

		switch f.key {
		case "$and", "$or", "$nor":
			arr, ok := bsontype.AsArray(f.value)
			if !ok {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array of query documents", f.key, path))
				continue
			}
			if len(arr) == 0 {
				*errs = append(*errs, warningf("operator '%s' at '%s' has an empty array", f.key, path))
				continue
			}
			// Each element is a complete filter in its own right, so it
			// validates against the full top-level schema.
			for i, sub := range arr {
				subPath := indexPath(path, i)
				if !isDocument(sub) {
					*errs = append(*errs, fmt.Sprintf("invalid element in '%s' array at '%s': expected a query document", f.key, subPath))
					continue
				}
				schemaWalk(sub, full, errs, subPath, full, depth+1)
			}
			continue

		case "$not":
			if !isDocument(f.value) && !isRegex(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '$not' at '%s': expected an operator expression document or a regex", path))
				continue
			}
			if isDocument(f.value) {
				inner, _ := documentFields(f.value)
				for _, in := range inner {
					if !isOperatorKey(in.key) {
						*errs = append(*errs, warningf("value for '$not' at '%s' contains non-operator keys; validation may be incomplete", path))
						break
					}
				}
			}
			continue
		}

		leaf, ok := resolvePath(f.key, schema, prefix, path, errs)
		if !ok {
			continue
		}

		if isDocument(f.value) && hasOperatorKeys(f.value) {
			ofs, _ := documentFields(f.value)
			operatorBlock(ofs, leaf, errs, path, full, depth)
			continue
		}

		implicitEquality(f.value, leaf, errs, path)
	}
}

func hasOperatorKeys(v any) bool {
	fs, _ := documentFields(v)
	for _, f := range fs {
		if isOperatorKey(f.key) {
			return true
		}
	}
	return false
}

// resolvePath descends the dot-separated segments of key through nested
// object schemas and returns the schema node of the final segment. Every
// failure mode appends its own error and reports !ok.
func resolvePath(key string, schema map[string]*docschema.Node, prefix, path string, errs *[]string) (*docschema.Node, bool) {
	parts := strings.Split(key, ".")
	level := schema
	walked := prefix
	var node *docschema.Node

	for i, part := range parts {
		n, in := level[part]
		if !in {
			if strings.HasPrefix(part, "$") && i == 0 {
				*errs = append(*errs, fmt.Sprintf("invalid query key '%s': field '%s' not found in schema at '%s'; is it a misplaced operator?", path, part, walked))
			} else {
				*errs = append(*errs, fmt.Sprintf("invalid query key '%s': field '%s' not found in schema at '%s'", path, part, walked))
			}
			return nil, false
		}
		node = n

		if i < len(parts)-1 {
			walked = joinPath(walked, part)
			if !n.Valid() || !n.Types.Has(bsontype.Object) {
				*errs = append(*errs, fmt.Sprintf("invalid query path '%s': field '%s' at '%s' is not an object in the schema, cannot traverse further", path, part, walked))
				return nil, false
			}
			if n.Object == nil {
				*errs = append(*errs, fmt.Sprintf("schema definition error: field '%s' at '%s' is an object but lacks a field schema", part, walked))
				return nil, false
			}
			level = n.Object
		}
	}

	return node, true
}

func implicitEquality(value any, leaf *docschema.Node, errs *[]string, path string) {
	if !leaf.Valid() {
		*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': field lacks type information", path))
		return
	}
	if t := bsontype.Of(value); !typeCompatible(t, leaf.Types) {
		*errs = append(*errs, fmt.Sprintf("type mismatch for field '%s': query uses type '%s', but schema expects %s", path, t, describeTypes(leaf.Types)))
	}
}

// operatorBlock validates a document of operator keys against the schema
// node of the field they apply to. $elemMatch over primitive array elements
// re-enters here with the element schema as the leaf.
func operatorBlock(fs []field, leaf *docschema.Node, errs *[]string, path string, full map[string]*docschema.Node, depth int) {
	if depth > maxDepth {
		*errs = append(*errs, fmt.Sprintf("maximum nesting depth exceeded at '%s'", path))
		return
	}

	for _, f := range fs {
		op := f.key
		opPath := joinPath(path, op)

		if !knownOperator(op) {
			*errs = append(*errs, fmt.Sprintf("unknown operator '%s' at '%s'", op, opPath))
			continue
		}

		switch op {
		case "$eq", "$ne", "$gt", "$gte", "$lt", "$lte":
			if !leaf.Valid() {
				*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': field lacks type information", path))
				continue
			}
			if t := bsontype.Of(f.value); !typeCompatible(t, leaf.Types) {
				*errs = append(*errs, fmt.Sprintf("type mismatch for operator '%s' at '%s': query uses type '%s', but schema expects %s", op, opPath, t, describeTypes(leaf.Types)))
			}

		case "$in", "$nin":
			arr, ok := bsontype.AsArray(f.value)
			if !ok {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array", op, opPath))
				continue
			}
			if !leaf.Valid() {
				*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': field lacks type information", path))
				continue
			}
			for i, item := range arr {
				if t := bsontype.Of(item); !typeCompatible(t, leaf.Types) {
					*errs = append(*errs, fmt.Sprintf("type mismatch for item in '%s' array at '%s': item type is '%s', but schema expects %s", op, indexPath(opPath, i), t, describeTypes(leaf.Types)))
				}
			}

		case "$exists":
			if !isBool(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a boolean", op, opPath))
			}

		case "$type":
			if !validTypeSpec(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a type name, a type number, or an array of them", op, opPath))
				continue
			}
			// $type inspects the actual stored type, which can legitimately
			// differ from the sampled schema, so a mismatch only warns.
			if s, ok := f.value.(string); ok && leaf.Valid() && !leaf.Types.Has(bsontype.Type(s)) {
				*errs = append(*errs, warningf("operator '$type' at '%s' checks for type '%s', which is not among the expected schema types %s", opPath, s, describeTypes(leaf.Types)))
			}

		case "$regex":
			if leaf.Valid() && !leaf.Types.Has(bsontype.String) {
				*errs = append(*errs, warningf("operator '$regex' at '%s': field type is not 'string' in the schema (%s), $regex may not match as expected", opPath, describeTypes(leaf.Types)))
			}
			if !isString(f.value) && !isRegex(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a string or regex", op, opPath))
			}

		case "$size":
			if leaf.Valid() && !leaf.Types.Has(bsontype.Array) {
				*errs = append(*errs, fmt.Sprintf("usage error for operator '%s' at '%s': field type is not 'array' in the schema (%s)", op, opPath, describeTypes(leaf.Types)))
			}
			if !isInteger(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an integer", op, opPath))
			}

		case "$all":
			if leaf.Valid() && !leaf.Types.Has(bsontype.Array) {
				*errs = append(*errs, fmt.Sprintf("usage error for operator '%s' at '%s': field type is not 'array' in the schema (%s)", op, opPath, describeTypes(leaf.Types)))
				continue
			}
			arr, ok := bsontype.AsArray(f.value)
			if !ok {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected an array of elements", op, opPath))
				continue
			}
			if !leaf.Element.Valid() {
				*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': array field lacks an element schema needed to validate '%s'", path, op))
				continue
			}
			for i, item := range arr {
				if t := bsontype.Of(item); !typeCompatible(t, leaf.Element.Types) {
					*errs = append(*errs, fmt.Sprintf("type mismatch for item in '%s' array at '%s': item type is '%s', but array element schema expects %s", op, indexPath(opPath, i), t, describeTypes(leaf.Element.Types)))
				}
			}

		case "$elemMatch":
			if leaf.Valid() && !leaf.Types.Has(bsontype.Array) {
				*errs = append(*errs, fmt.Sprintf("usage error for operator '%s' at '%s': field type is not 'array' in the schema (%s)", op, opPath, describeTypes(leaf.Types)))
				continue
			}
			if !isDocument(f.value) {
				*errs = append(*errs, fmt.Sprintf("invalid value for operator '%s' at '%s': expected a query document for element matching", op, opPath))
				continue
			}
			elem := leaf.Element
			if !elem.Valid() {
				*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': array field lacks an element schema needed to validate '%s'", path, op))
				continue
			}
			if elem.Types.Has(bsontype.Object) {
				if elem.Object == nil {
					*errs = append(*errs, fmt.Sprintf("schema definition error at '%s': array element is an object but lacks a field schema", path))
					continue
				}
				schemaWalk(f.value, elem.Object, errs, opPath, full, depth+1)
				continue
			}
			// Primitive elements: the body is an operator block applied to
			// the element type itself.
			efs, _ := documentFields(f.value)
			operatorBlock(efs, elem, errs, opPath, full, depth+1)

		default:
			// $mod, $text, $where, geo and bitwise operators carry no
			// schema-aware type rule here.
		}
	}
}
