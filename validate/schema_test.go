package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
	"github.com/semwaqas/MongoDB-toolkit/docschema"
)

func personSchema() map[string]*docschema.Node {
	return map[string]*docschema.Node{
		"name": docschema.Leaf(bsontype.String),
		"age":  docschema.Leaf(bsontype.Int),
		"address": {
			Types: docschema.NewTypeSet(bsontype.Object),
			Object: map[string]*docschema.Node{
				"city": docschema.Leaf(bsontype.String),
			},
		},
		"tags": {
			Types:   docschema.NewTypeSet(bsontype.Array),
			Element: docschema.Leaf(bsontype.String),
		},
		"scores": {
			Types:   docschema.NewTypeSet(bsontype.Array),
			Element: docschema.Leaf(bsontype.Int),
		},
		"orders": {
			Types: docschema.NewTypeSet(bsontype.Array),
			Element: &docschema.Node{
				Types: docschema.NewTypeSet(bsontype.Object),
				Object: map[string]*docschema.Node{
					"sku": docschema.Leaf(bsontype.String),
					"qty": docschema.Leaf(bsontype.Int),
				},
			},
		},
	}
}

func TestAgainstSchemaClean(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: 30}}}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaImplicitEqualityMismatch(t *testing.T) {
	q := bson.D{{Key: "age", Value: "old"}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "type mismatch for field 'age'")
}

func TestAgainstSchemaImplicitEqualityMatch(t *testing.T) {
	q := bson.D{{Key: "name", Value: "ada"}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaNumericLeniency(t *testing.T) {
	// Schema says int; long, double and decimal still pass.
	q := bson.D{{Key: "age", Value: 3.5}}
	assert.Empty(t, AgainstSchema(q, personSchema()))

	q = bson.D{{Key: "age", Value: int64(40)}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaUnknownField(t *testing.T) {
	q := bson.D{{Key: "salary", Value: 100}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "field 'salary' not found")
}

func TestAgainstSchemaDottedPath(t *testing.T) {
	q := bson.D{{Key: "address.city", Value: "Lahore"}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaDottedPathMissingSegment(t *testing.T) {
	q := bson.D{{Key: "address.zip", Value: 54000}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "field 'zip' not found")
}

func TestAgainstSchemaDottedPathThroughNonObject(t *testing.T) {
	q := bson.D{{Key: "name.first", Value: "ada"}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not an object")
}

func TestAgainstSchemaObjectMissingFieldSchema(t *testing.T) {
	schema := map[string]*docschema.Node{
		"meta": {Types: docschema.NewTypeSet(bsontype.Object)},
	}
	q := bson.D{{Key: "meta.version", Value: 1}}
	errs := AgainstSchema(q, schema)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "schema definition error")
}

func TestAgainstSchemaMisplacedOperator(t *testing.T) {
	q := bson.D{{Key: "$gt", Value: 30}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "misplaced operator")
}

func TestAgainstSchemaLogicalRecursesFullSchema(t *testing.T) {
	q := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: "ada"}},
		bson.D{{Key: "age", Value: bson.D{{Key: "$lt", Value: 50}}}},
	}}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaLogicalElementErrors(t *testing.T) {
	q := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "age", Value: "old"}},
		"not a document",
	}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "$and[0]")
	assert.Contains(t, errs[1], "$and[1]")
}

func TestAgainstSchemaNotShallow(t *testing.T) {
	q := bson.D{{Key: "$not", Value: bson.D{{Key: "$gt", Value: 100}}}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaNotNonOperatorKeysWarn(t *testing.T) {
	q := bson.D{{Key: "$not", Value: bson.D{{Key: "age", Value: 30}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.True(t, IsWarning(errs[0]))
}

func TestAgainstSchemaComparisonMismatch(t *testing.T) {
	q := bson.D{{Key: "name", Value: bson.D{{Key: "$gt", Value: 5}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "type mismatch for operator '$gt'")
}

func TestAgainstSchemaInChecksEachElement(t *testing.T) {
	q := bson.D{{Key: "name", Value: bson.D{
		{Key: "$in", Value: bson.A{"ada", 7, "lin"}},
	}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "name.$in[1]")
}

func TestAgainstSchemaExistsNeedsBool(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$exists", Value: 1}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "expected a boolean")
}

func TestAgainstSchemaTypeMismatchWarns(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$type", Value: "string"}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.True(t, IsWarning(errs[0]))
}

func TestAgainstSchemaTypeMatchSilent(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$type", Value: "int"}}}}
	assert.Empty(t, AgainstSchema(q, personSchema()))
}

func TestAgainstSchemaRegexOnNonStringWarns(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$regex", Value: "^4"}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.True(t, IsWarning(errs[0]))
}

func TestAgainstSchemaSizeOnNonArray(t *testing.T) {
	q := bson.D{{Key: "age", Value: bson.D{{Key: "$size", Value: 3}}}}
	errs := AgainstSchema(q, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "usage error")
}

func TestAgainstSchemaAllElements(t *testing.T) {
	ok := bson.D{{Key: "tags", Value: bson.D{{Key: "$all", Value: bson.A{"x", "y"}}}}}
	assert.Empty(t, AgainstSchema(ok, personSchema()))

	bad := bson.D{{Key: "tags", Value: bson.D{{Key: "$all", Value: bson.A{"x", 5}}}}}
	errs := AgainstSchema(bad, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "tags.$all[1]")
}

func TestAgainstSchemaElemMatchObjectElements(t *testing.T) {
	ok := bson.D{{Key: "orders", Value: bson.D{
		{Key: "$elemMatch", Value: bson.D{
			{Key: "sku", Value: "abc"},
			{Key: "qty", Value: bson.D{{Key: "$gt", Value: 1}}},
		}},
	}}}
	assert.Empty(t, AgainstSchema(ok, personSchema()))

	bad := bson.D{{Key: "orders", Value: bson.D{
		{Key: "$elemMatch", Value: bson.D{{Key: "sku", Value: 9}}},
	}}}
	errs := AgainstSchema(bad, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "type mismatch")
}

func TestAgainstSchemaElemMatchPrimitiveElements(t *testing.T) {
	ok := bson.D{{Key: "scores", Value: bson.D{
		{Key: "$elemMatch", Value: bson.D{
			{Key: "$gte", Value: 80},
			{Key: "$lt", Value: 90},
		}},
	}}}
	assert.Empty(t, AgainstSchema(ok, personSchema()))

	bad := bson.D{{Key: "scores", Value: bson.D{
		{Key: "$elemMatch", Value: bson.D{{Key: "$gte", Value: "eighty"}}},
	}}}
	errs := AgainstSchema(bad, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "type mismatch")
}

func TestAgainstSchemaNullAllowed(t *testing.T) {
	schema := map[string]*docschema.Node{
		"nick": {Types: docschema.NewTypeSet(bsontype.String, bsontype.Null)},
	}
	q := bson.D{{Key: "nick", Value: nil}}
	assert.Empty(t, AgainstSchema(q, schema))
}

func TestAgainstSchemaFieldLacksTypes(t *testing.T) {
	schema := map[string]*docschema.Node{
		"odd": {Types: docschema.NewTypeSet()},
	}
	q := bson.D{{Key: "odd", Value: 1}}
	errs := AgainstSchema(q, schema)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "lacks type information")
}

func TestAgainstSchemaNonDocumentRoot(t *testing.T) {
	errs := AgainstSchema(5, personSchema())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must be a document")
}
