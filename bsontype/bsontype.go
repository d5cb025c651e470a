// Package bsontype assigns a BSON type tag to arbitrary runtime values.
//
// The tag set mirrors the BSON type names used by the server ("string",
// "long", "objectId", ...) plus two tags of our own: "empty_array" marks an
// array whose element type is not yet known, and "unknown" is the total
// fallback for values we cannot place.
package bsontype

import (
	"reflect"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Type string

const (
	String     Type = "string"
	Bool       Type = "bool"
	Int        Type = "int"
	Long       Type = "long"
	Double     Type = "double"
	Decimal    Type = "decimal"
	Array      Type = "array"
	Object     Type = "object"
	ObjectID   Type = "objectId"
	DBRef      Type = "dbRef"
	Timestamp  Type = "timestamp"
	Null       Type = "null"
	MinKey     Type = "minKey"
	MaxKey     Type = "maxKey"
	BinData    Type = "binData"
	JavaScript Type = "javascript"
	Regex      Type = "regex"
	EmptyArray Type = "empty_array"
	Unknown    Type = "unknown"
)

// Numeric reports whether the tag belongs to the numeric family that query
// validation treats as mutually comparable.
func (t Type) Numeric() bool {
	switch t {
	case Int, Long, Double, Decimal:
		return true
	}
	return false
}

// Of classifies a value. It is total: anything unrecognized comes back as
// Unknown, never an error.
//
// The case order encodes real disambiguation priority: bool before the
// numeric cases, int64 before the other integer widths, binary before the
// generic sequence fallback. Keep it when adding cases.
func Of(v any) Type {
	switch v.(type) {
	case string:
		return String
	case bool:
		return Bool
	case int64, uint64:
		return Long
	case int, int8, int16, int32, uint, uint8, uint16, uint32:
		return Int
	case float32, float64:
		return Double
	case primitive.Decimal128:
		return Decimal
	case []byte, primitive.Binary:
		return BinData
	case []any, bson.A:
		return Array
	case map[string]any, bson.M, bson.D:
		return Object
	case primitive.ObjectID:
		return ObjectID
	case primitive.DBPointer:
		return DBRef
	case primitive.Timestamp:
		return Timestamp
	case nil, primitive.Null, primitive.Undefined:
		return Null
	case primitive.MinKey:
		return MinKey
	case primitive.MaxKey:
		return MaxKey
	case primitive.JavaScript, primitive.CodeWithScope:
		return JavaScript
	case primitive.Regex, *regexp.Regexp:
		return Regex
	}

	// Values outside the closed bson set, e.g. []string or map[string]int
	// produced by Go callers rather than the driver.
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Array
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return Object
		}
	}

	return Unknown
}
