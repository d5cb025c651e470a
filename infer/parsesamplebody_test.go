package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObjectEmpty(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte("{}"))
	assert.Nil(t, err)
	assert.Len(t, docs, 1)
}

func TestParseObjectOneFieldString(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"field": "string-val"}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"field": "string-val"}, docs[0])
}

func TestParseObjectOneFieldNumber(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"field": 1234}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"field": 1234}, docs[0])
}

func TestParseObjectOneFieldFloat(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"field": 3.5}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"field": 3.5}, docs[0])
}

func TestParseObjectOneFieldBool(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"field": true}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"field": true}, docs[0])
}

func TestParseObjectOneFieldNull(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"field": null}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"field": nil}, docs[0])
}

func TestParseArrayEmpty(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte("[]"))
	assert.Nil(t, err)
	assert.Len(t, docs, 0)
}

func TestParseArrayOfDocuments(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`[{"a": 123}, {"b": "hi"}]`))
	assert.Nil(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, map[string]any{"a": 123}, docs[0])
	assert.Equal(t, map[string]any{"b": "hi"}, docs[1])
}

func TestParseNestedArray(t *testing.T) {
	docs, err := ParseSampleDocuments([]byte(`{"tags": ["x", "y"]}`))
	assert.Nil(t, err)
	assert.Equal(t, map[string]any{"tags": []any{"x", "y"}}, docs[0])
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := ParseSampleDocuments([]byte(`{"field": `))
	assert.NotNil(t, err)
}
