// Package docschema holds the inferred structural description of sampled
// documents: one Node per observed position in the document tree, with a set
// of observed type tags and optional child schemas for objects and arrays.
//
// A collection-level schema is a plain map from top-level field name to Node;
// the document root has no wrapping node of its own.
package docschema

import (
	"encoding/json"
	"sort"

	"github.com/semwaqas/MongoDB-toolkit/bsontype"
)

// TypeSet is an unordered, deduplicated set of type tags. It serializes as a
// sorted list.
type TypeSet map[bsontype.Type]struct{}

func NewTypeSet(ts ...bsontype.Type) TypeSet {
	s := make(TypeSet, len(ts))
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

func (s TypeSet) Has(t bsontype.Type) bool {
	_, in := s[t]
	return in
}

func (s TypeSet) Add(t bsontype.Type) {
	s[t] = struct{}{}
}

func (s TypeSet) Clone() TypeSet {
	c := make(TypeSet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// HasNumeric reports whether any tag of the numeric family is present.
func (s TypeSet) HasNumeric() bool {
	for t := range s {
		if t.Numeric() {
			return true
		}
	}
	return false
}

func (s TypeSet) Sorted() []bsontype.Type {
	out := make([]bsontype.Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s TypeSet) Equal(o TypeSet) bool {
	if len(s) != len(o) {
		return false
	}
	for t := range s {
		if !o.Has(t) {
			return false
		}
	}
	return true
}

func (s TypeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *TypeSet) UnmarshalJSON(b []byte) error {
	var ts []bsontype.Type
	if err := json.Unmarshal(b, &ts); err != nil {
		return err
	}
	*s = NewTypeSet(ts...)
	return nil
}

// Node describes the union of value shapes observed at one position.
//
// Object is populated iff "object" has been observed at this position,
// Element iff "array" has. An array observed only empty carries an Element
// whose type set is exactly {empty_array}; the placeholder disappears the
// moment a real element type is merged in.
//
// Nodes are treated as immutable snapshots once handed out: merging produces
// fresh nodes rather than mutating either input.
type Node struct {
	Types   TypeSet          `json:"types"`
	Object  map[string]*Node `json:"objectSchema,omitempty"`
	Element *Node            `json:"elementSchema,omitempty"`
}

// Valid reports whether the node can participate in merging: non-nil with at
// least one observed type. Merge degrades gracefully around anything else.
func (n *Node) Valid() bool {
	return n != nil && len(n.Types) > 0
}

// Leaf is a convenience constructor for a node with only type tags.
func Leaf(ts ...bsontype.Type) *Node {
	return &Node{Types: NewTypeSet(ts...)}
}
