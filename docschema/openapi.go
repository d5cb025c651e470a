package docschema

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
)

// OpenAPI renders the node as an OpenAPI schema. Single-type nodes map
// directly; multi-type nodes become a oneOf. BSON-specific tags surface as
// string schemas with a format hint, which is as close as OpenAPI gets.
func (n *Node) OpenAPI() *openapi3.Schema {
	if !n.Valid() {
		return &openapi3.Schema{}
	}

	nullable := n.Types.Has(bsontype.Null)

	var alts []*openapi3.Schema
	for _, t := range n.Types.Sorted() {
		if t == bsontype.Null || t == bsontype.EmptyArray {
			continue
		}
		alts = append(alts, n.typeOpenAPI(t))
	}

	var res *openapi3.Schema
	switch len(alts) {
	case 0:
		res = &openapi3.Schema{}
	case 1:
		res = alts[0]
	default:
		res = &openapi3.Schema{}
		for _, a := range alts {
			res.OneOf = append(res.OneOf, a.NewRef())
		}
	}

	res.Nullable = nullable
	return res
}

func (n *Node) typeOpenAPI(t bsontype.Type) *openapi3.Schema {
	switch t {
	case bsontype.String:
		return &openapi3.Schema{Type: openapi3.TypeString}
	case bsontype.Bool:
		return &openapi3.Schema{Type: openapi3.TypeBoolean}
	case bsontype.Int:
		return &openapi3.Schema{Type: openapi3.TypeInteger, Format: "int32"}
	case bsontype.Long:
		return &openapi3.Schema{Type: openapi3.TypeInteger, Format: "int64"}
	case bsontype.Double:
		return &openapi3.Schema{Type: openapi3.TypeNumber, Format: "double"}
	case bsontype.Decimal:
		return &openapi3.Schema{Type: openapi3.TypeNumber, Format: "decimal128"}
	case bsontype.Array:
		item := &openapi3.Schema{}
		if n.Element.Valid() {
			item = n.Element.OpenAPI()
		}
		return &openapi3.Schema{Type: openapi3.TypeArray, Items: item.NewRef()}
	case bsontype.Object:
		return FieldsOpenAPI(n.Object)
	case bsontype.ObjectID:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "objectid"}
	case bsontype.DBRef:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "dbref"}
	case bsontype.Timestamp:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "timestamp"}
	case bsontype.BinData:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "byte"}
	case bsontype.JavaScript:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "javascript"}
	case bsontype.Regex:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: "regex"}
	case bsontype.MinKey, bsontype.MaxKey:
		return &openapi3.Schema{Type: openapi3.TypeString, Format: string(t)}
	default:
		return &openapi3.Schema{}
	}
}

// FieldsOpenAPI renders a collection-level schema (field name to node) as a
// single OpenAPI object schema with every observed field required.
func FieldsOpenAPI(fields map[string]*Node) *openapi3.Schema {
	ps := make(openapi3.Schemas, len(fields))
	rs := make([]string, 0, len(fields))
	for k, v := range fields {
		ps[k] = v.OpenAPI().NewRef()
		rs = append(rs, k)
	}
	sort.Strings(rs)
	return &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Required:   rs,
		Properties: ps,
	}
}
