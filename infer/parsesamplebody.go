package infer

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// ParseSampleDocuments parses a raw JSON body into sample documents ready
// for Collection: either a JSON array of documents or a single document.
//
// Values come back as plain Go values (map[string]any, []any, string, int,
// int64, float64, bool, nil). Extended JSON wrappers like {"$oid": ...} are
// kept as the objects they literally are; callers holding BSON-aware input
// should decode with bson.UnmarshalExtJSON instead of this path.
func ParseSampleDocuments(b []byte) ([]any, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}

	if v.Type() == fastjson.TypeArray {
		a, err := v.Array()
		if err != nil {
			return nil, err
		}
		docs := make([]any, len(a))
		for i, e := range a {
			docs[i], err = ParseSampleValue(e)
			if err != nil {
				return nil, err
			}
		}
		return docs, nil
	}

	doc, err := ParseSampleValue(v)
	if err != nil {
		return nil, err
	}
	return []any{doc}, nil
}

// ParseSampleValue converts a parsed fastjson value into a plain Go value.
func ParseSampleValue(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return nil, err
		}
		return parseFastJsonObject(o)
	case fastjson.TypeArray:
		a, err := v.Array()
		if err != nil {
			return nil, err
		}
		return parseFastJsonArray(a)
	case fastjson.TypeString:
		sb, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(sb), nil
	case fastjson.TypeNumber:
		return parseFastJsonNumber(v)
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeNull:
		return nil, nil
	}

	return nil, fmt.Errorf("unhandled json value type %v", v.Type())
}

func parseFastJsonObject(o *fastjson.Object) (any, error) {
	doc := make(map[string]any, o.Len())

	var visitErr error
	o.Visit(func(key []byte, v *fastjson.Value) {
		if visitErr != nil {
			return
		}
		child, childErr := ParseSampleValue(v)
		if childErr != nil {
			visitErr = childErr
			return
		}
		doc[string(key)] = child
	})

	if visitErr != nil {
		return nil, visitErr
	}
	return doc, nil
}

func parseFastJsonArray(vs []*fastjson.Value) (any, error) {
	arr := make([]any, len(vs))
	for i, v := range vs {
		e, err := ParseSampleValue(v)
		if err != nil {
			return nil, err
		}
		arr[i] = e
	}
	return arr, nil
}

// JSON integers that fit a machine int classify as "int"; wider ones as
// "long"; everything else stays a double.
func parseFastJsonNumber(v *fastjson.Value) (any, error) {
	if i, err := v.Int(); err == nil {
		return i, nil
	}
	if i, err := v.Int64(); err == nil {
		return i, nil
	}
	f, err := v.Float64()
	if err != nil {
		return nil, err
	}
	return f, nil
}
