package bsontype

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// AsDocument returns the value's fields as a map when the value is an
// associative container. bson.D entries with duplicate keys collapse to the
// last one, same as the server.
func AsDocument(v any) (map[string]any, bool) {
	switch d := v.(type) {
	case map[string]any:
		return d, true
	case bson.M:
		return map[string]any(d), true
	case bson.D:
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	}

	if Of(v) != Object {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	m := make(map[string]any, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		m[it.Key().String()] = it.Value().Interface()
	}
	return m, true
}

// AsArray returns the value's elements when the value is a sequence. Strings
// and binary values are not sequences here.
func AsArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case bson.A:
		return []any(a), true
	}

	if Of(v) != Array {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
