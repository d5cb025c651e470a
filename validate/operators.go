// Package validate checks query filter documents, either structurally on
// their own (Syntax) or against an inferred collection schema
// (AgainstSchema). Both walks accumulate every problem they find into an
// ordered list of messages and never fail part-way; an empty list means the
// query passed.
//
// Non-fatal findings carry a "warning: " prefix so callers can separate them
// from hard errors.
package validate

import "strings"

// Known query operators.
// See https://www.mongodb.com/docs/manual/reference/operator/query/
var queryOperators = map[string]struct{}{
	// Comparison
	"$eq": {}, "$gt": {}, "$gte": {}, "$in": {}, "$lt": {}, "$lte": {}, "$ne": {}, "$nin": {},
	// Logical
	"$and": {}, "$or": {}, "$not": {}, "$nor": {},
	// Element
	"$exists": {}, "$type": {},
	// Evaluation
	"$expr": {}, "$jsonSchema": {}, "$mod": {}, "$regex": {}, "$options": {},
	"$text": {}, "$where": {}, "$search": {},
	// Geospatial
	"$geoIntersects": {}, "$geoWithin": {}, "$near": {}, "$nearSphere": {},
	"$box": {}, "$center": {}, "$centerSphere": {}, "$geometry": {},
	"$maxDistance": {}, "$minDistance": {}, "$polygon": {},
	// Array
	"$all": {}, "$elemMatch": {}, "$size": {},
	// Bitwise
	"$bitsAllClear": {}, "$bitsAllSet": {}, "$bitsAnyClear": {}, "$bitsAnySet": {},
	// Comments
	"$comment": {},
}

func knownOperator(key string) bool {
	_, in := queryOperators[key]
	return in
}

func isOperatorKey(key string) bool {
	return strings.HasPrefix(key, "$")
}
