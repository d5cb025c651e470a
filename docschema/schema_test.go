package docschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
)

func TestTypeSetMarshalSorted(t *testing.T) {
	ts := NewTypeSet(bsontype.String, bsontype.Int, bsontype.Bool)
	bs, err := json.Marshal(ts)
	assert.Nil(t, err)
	assert.Equal(t, `["bool","int","string"]`, string(bs))
}

func TestTypeSetRoundTrip(t *testing.T) {
	ts := NewTypeSet(bsontype.Int, bsontype.Null)
	bs, err := json.Marshal(ts)
	assert.Nil(t, err)

	var back TypeSet
	assert.Nil(t, json.Unmarshal(bs, &back))
	assert.True(t, ts.Equal(back))
}

func TestNodeRoundTrip(t *testing.T) {
	n := &Node{
		Types: NewTypeSet(bsontype.Object),
		Object: map[string]*Node{
			"name": Leaf(bsontype.String),
			"tags": {
				Types:   NewTypeSet(bsontype.Array),
				Element: Leaf(bsontype.Int),
			},
		},
	}

	bs, err := json.Marshal(n)
	assert.Nil(t, err)

	var back Node
	assert.Nil(t, json.Unmarshal(bs, &back))
	assert.Equal(t, n, &back)
}

func TestNodeMarshalOmitsEmptyChildren(t *testing.T) {
	bs, err := json.Marshal(Leaf(bsontype.Int))
	assert.Nil(t, err)
	assert.Equal(t, `{"types":["int"]}`, string(bs))
}

func TestValid(t *testing.T) {
	assert.True(t, Leaf(bsontype.Int).Valid())
	assert.False(t, (&Node{Types: NewTypeSet()}).Valid())

	var nilNode *Node
	assert.False(t, nilNode.Valid())
}

func TestHasNumeric(t *testing.T) {
	assert.True(t, NewTypeSet(bsontype.Double).HasNumeric())
	assert.False(t, NewTypeSet(bsontype.String, bsontype.Bool).HasNumeric())
}

func TestOpenAPIScalar(t *testing.T) {
	s := Leaf(bsontype.String).OpenAPI()
	assert.Equal(t, "string", s.Type)
}

func TestOpenAPILong(t *testing.T) {
	s := Leaf(bsontype.Long).OpenAPI()
	assert.Equal(t, "integer", s.Type)
	assert.Equal(t, "int64", s.Format)
}

func TestOpenAPINullable(t *testing.T) {
	s := (&Node{Types: NewTypeSet(bsontype.String, bsontype.Null)}).OpenAPI()
	assert.True(t, s.Nullable)
	assert.Equal(t, "string", s.Type)
}

func TestOpenAPIArray(t *testing.T) {
	n := &Node{
		Types:   NewTypeSet(bsontype.Array),
		Element: Leaf(bsontype.Int),
	}
	s := n.OpenAPI()
	assert.Equal(t, "array", s.Type)
	assert.NotNil(t, s.Items)
	assert.Equal(t, "integer", s.Items.Value.Type)
}

func TestFieldsOpenAPI(t *testing.T) {
	fields := map[string]*Node{
		"name": Leaf(bsontype.String),
		"age":  Leaf(bsontype.Int),
	}
	s := FieldsOpenAPI(fields)
	assert.Equal(t, "object", s.Type)
	assert.Len(t, s.Properties, 2)
	assert.Equal(t, []string{"age", "name"}, s.Required)
}
