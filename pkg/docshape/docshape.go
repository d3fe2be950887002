// Package docshape converts stored document trees to the shape the
// application works with: every mapping that carries an "_id" gets a plain
// "id" instead, at any depth. Values are never reinterpreted.
package docshape

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StorageKey   = "_id"
	CanonicalKey = "id"
)

// Canonical returns a copy of v with "_id" renamed to "id" in every
// mapping. Mappings (map[string]any, bson.M, bson.D) and sequences ([]any,
// bson.A) are walked; anything else is returned as is. A mapping without
// "_id", or with a nil one, keeps its keys. If a mapping has both "_id" and
// "id", the "_id" value wins.
//
// Canonical(Canonical(v)) is equal to Canonical(v).
func Canonical(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return canonicalMap(t)
	case bson.M:
		return bson.M(canonicalMap(t))
	case bson.D:
		return canonicalDoc(t)
	case []any:
		return canonicalSlice(t)
	case bson.A:
		return bson.A(canonicalSlice(t))
	default:
		return v
	}
}

// HasStorageID reports whether m carries a usable "_id".
func HasStorageID(m map[string]any) bool {
	id, ok := m[StorageKey]
	return ok && id != nil
}

func canonicalMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	rename := HasStorageID(m)
	out := make(map[string]any, len(m))
	for k, val := range m {
		if rename && (k == StorageKey || k == CanonicalKey) {
			continue
		}
		out[k] = Canonical(val)
	}
	if rename {
		out[CanonicalKey] = idValue(m[StorageKey])
	}
	return out
}

// canonicalDoc keeps field order; "id" takes the position "_id" had.
func canonicalDoc(d bson.D) bson.D {
	if d == nil {
		return nil
	}
	var raw any
	rename := false
	for _, e := range d {
		if e.Key == StorageKey && e.Value != nil {
			raw, rename = e.Value, true
			break
		}
	}

	out := make(bson.D, 0, len(d))
	for _, e := range d {
		switch {
		case rename && e.Key == StorageKey:
			out = append(out, primitive.E{Key: CanonicalKey, Value: idValue(raw)})
		case rename && e.Key == CanonicalKey:
		default:
			out = append(out, primitive.E{Key: e.Key, Value: Canonical(e.Value)})
		}
	}
	return out
}

func canonicalSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, val := range s {
		out[i] = Canonical(val)
	}
	return out
}

func idValue(raw any) any {
	switch id := raw.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	default:
		return raw
	}
}
