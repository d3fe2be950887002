package mongostore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

func TestDocumentMapping(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
	in := &model.Ticket{
		ID:       model.NewID(),
		Project:  "  Acme ",
		Title:    "Bug X",
		Status:   model.StatusBlocked,
		Priority: model.PriorityHigh,
		Steps: model.Steps{
			{ID: model.NewID(), Title: "Triage", Status: model.StepDoing, Notes: "looked"},
		},
		Notes: model.Notes{
			{ID: model.NewID(), Body: "fixed", Author: "sam", CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc, err := toDocument(in)
	if err != nil {
		t.Fatalf("toDocument: %v", err)
	}
	if doc.ProjectCI != "acme" {
		t.Errorf("ProjectCI = %q, want acme", doc.ProjectCI)
	}
	if doc.Project != "  Acme " {
		t.Errorf("Project must be stored as given, got %q", doc.Project)
	}

	// Through BSON and back, the way the driver would store it.
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var decoded ticketDocument
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	out := decoded.toModel()

	if out.ID != in.ID || out.Title != in.Title || out.Status != in.Status || out.Priority != in.Priority {
		t.Errorf("scalar fields changed: %+v", out)
	}
	if len(out.Steps) != 1 || out.Steps[0].ID != in.Steps[0].ID || out.Steps[0].Notes != "looked" {
		t.Errorf("steps changed: %+v", out.Steps)
	}
	if len(out.Notes) != 1 || out.Notes[0].ID != in.Notes[0].ID || !out.Notes[0].CreatedAt.Equal(now) {
		t.Errorf("notes changed: %+v", out.Notes)
	}
	if !out.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, now)
	}
}

func TestDocumentMapping_EmptyCollectionsStayArrays(t *testing.T) {
	doc, err := toDocument(&model.Ticket{ID: model.NewID()})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Steps == nil || doc.Notes == nil {
		t.Error("empty collections must be stored as arrays, not null")
	}
	if out := doc.toModel(); out.Steps == nil || out.Notes == nil {
		t.Error("empty collections must decode to non-nil slices")
	}
}

func TestToDocument_RejectsBadID(t *testing.T) {
	if _, err := toDocument(&model.Ticket{ID: "not-an-object-id"}); err == nil {
		t.Error("expected error for malformed ticket id")
	}
}

func TestBuildFilter(t *testing.T) {
	f := buildFilter(store.Query{
		Status:   model.StatusDone,
		Priority: model.PriorityLow,
		Title:    "a+b",
		Project:  "acme",
	})

	if f["status"] != "done" || f["priority"] != "low" || f["project_ci"] != "acme" {
		t.Errorf("unexpected filter %v", f)
	}
	re, ok := f["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title filter is %T, want primitive.Regex", f["title"])
	}
	if re.Pattern != `a\+b` || re.Options != "i" {
		t.Errorf("title regex = %+v", re)
	}

	if len(buildFilter(store.Query{})) != 0 {
		t.Error("empty query should produce an empty filter")
	}
}
