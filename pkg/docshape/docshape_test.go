package docshape

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanonical_RenamesAtEveryDepth(t *testing.T) {
	tid := primitive.NewObjectID()
	sid := primitive.NewObjectID()

	in := map[string]any{
		"_id":   tid,
		"title": "Bug X",
		"steps": []any{
			map[string]any{"_id": sid, "title": "Triage", "status": "todo"},
		},
		"notes": []any{
			map[string]any{"_id": "plain-string-id", "body": "fixed"},
		},
	}

	want := map[string]any{
		"id":    tid.Hex(),
		"title": "Bug X",
		"steps": []any{
			map[string]any{"id": sid.Hex(), "title": "Triage", "status": "todo"},
		},
		"notes": []any{
			map[string]any{"id": "plain-string-id", "body": "fixed"},
		},
	}

	if got := Canonical(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("Canonical =\n%#v\nwant\n%#v", got, want)
	}
	if _, still := in["_id"]; !still {
		t.Error("input was modified")
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	docs := []any{
		map[string]any{"id": "abc", "steps": []any{map[string]any{"id": "s1"}}},
		map[string]any{"_id": primitive.NewObjectID(), "notes": []any{}},
		bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "x"}},
		[]any{"a", 1.5, nil},
		"scalar",
		nil,
	}
	for _, doc := range docs {
		once := Canonical(doc)
		twice := Canonical(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("not idempotent for %#v: %#v vs %#v", doc, once, twice)
		}
	}

	already := map[string]any{"id": "abc", "title": "t"}
	if got := Canonical(already); !reflect.DeepEqual(got, already) {
		t.Errorf("normalized document changed: %#v", got)
	}
}

func TestCanonical_MissingOrNilID(t *testing.T) {
	noID := map[string]any{"title": "x"}
	if got := Canonical(noID); !reflect.DeepEqual(got, noID) {
		t.Errorf("Canonical(noID) = %#v", got)
	}

	nilID := map[string]any{"_id": nil, "title": "x"}
	if got := Canonical(nilID); !reflect.DeepEqual(got, nilID) {
		t.Errorf("Canonical(nilID) = %#v", got)
	}
}

func TestCanonical_BSONTypes(t *testing.T) {
	oid := primitive.NewObjectID()

	d := bson.D{
		{Key: "title", Value: "x"},
		{Key: "_id", Value: oid},
		{Key: "id", Value: "stale"},
		{Key: "steps", Value: bson.A{bson.M{"_id": oid}}},
	}
	want := bson.D{
		{Key: "title", Value: "x"},
		{Key: "id", Value: oid.Hex()},
		{Key: "steps", Value: bson.A{bson.M{"id": oid.Hex()}}},
	}
	if got := Canonical(d); !reflect.DeepEqual(got, want) {
		t.Fatalf("Canonical(bson.D) =\n%#v\nwant\n%#v", got, want)
	}
}

type stringer struct{ v string }

func (s stringer) String() string { return "S:" + s.v }

func TestCanonical_IDValues(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"object id", primitive.ObjectID{1}, primitive.ObjectID{1}.Hex()},
		{"string", "abc", "abc"},
		{"stringer", stringer{"x"}, "S:x"},
		{"number", 42.0, 42.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(map[string]any{"_id": tt.raw}).(map[string]any)
			if got["id"] != tt.want {
				t.Errorf("id = %#v, want %#v", got["id"], tt.want)
			}
		})
	}
}
