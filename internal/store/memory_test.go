package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

func seed(t *testing.T, m *Memory, tickets ...*model.Ticket) {
	t.Helper()
	for _, tk := range tickets {
		if err := m.Insert(context.Background(), tk); err != nil {
			t.Fatalf("Insert(%s): %v", tk.ID, err)
		}
	}
}

func ticketAt(id, title string, status model.Status, created time.Time) *model.Ticket {
	return &model.Ticket{
		ID:        id,
		Project:   "Acme",
		Title:     title,
		Status:    status,
		Priority:  model.PriorityMed,
		Steps:     model.Steps{},
		Notes:     model.Notes{},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestMemory_FindSortsNewestFirstAndPaginates(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, m,
		ticketAt("a", "oldest", model.StatusOpen, base),
		ticketAt("b", "middle", model.StatusOpen, base.Add(time.Minute)),
		ticketAt("c", "newest", model.StatusOpen, base.Add(2*time.Minute)),
	)

	items, total, err := m.Find(context.Background(), Query{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 1 || items[0].ID != "b" {
		t.Errorf("page 2 of size 1 = %+v, want ticket b", items)
	}

	items, _, _ = m.Find(context.Background(), Query{Skip: 10, Limit: 5})
	if len(items) != 0 {
		t.Errorf("window past the end returned %d items", len(items))
	}
}

func TestMemory_FindFilters(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	done := ticketAt("d", "Fix Login bug", model.StatusDone, now)
	done.Project = "  ACME "
	open := ticketAt("o", "login page", model.StatusOpen, now)
	open.Priority = model.PriorityHigh
	seed(t, m, done, open)

	tests := []struct {
		name    string
		q       Query
		wantIDs []string
	}{
		{name: "status", q: Query{Status: model.StatusDone}, wantIDs: []string{"d"}},
		{name: "priority", q: Query{Priority: model.PriorityHigh}, wantIDs: []string{"o"}},
		{name: "title case-insensitive", q: Query{Title: "LOGIN"}, wantIDs: []string{"o", "d"}},
		{name: "title is literal", q: Query{Title: "log.n"}, wantIDs: nil},
		{name: "status with title", q: Query{Status: model.StatusDone, Title: "login"}, wantIDs: []string{"d"}},
		{name: "normalized project", q: Query{Project: "acme"}, wantIDs: []string{"o", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := m.Find(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if int(total) != len(tt.wantIDs) {
				t.Errorf("total = %d, want %d", total, len(tt.wantIDs))
			}
			got := map[string]bool{}
			for _, it := range items {
				got[it.ID] = true
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Errorf("missing %s in %+v", id, items)
				}
			}
		})
	}
}

func TestMemory_CopiesOnReadAndWrite(t *testing.T) {
	m := NewMemory()
	tk := ticketAt("x", "title", model.StatusOpen, time.Now())
	tk.Steps = model.Steps{{ID: "s", Title: "Triage", Status: model.StepTodo}}
	seed(t, m, tk)

	tk.Steps[0].Title = "mutated after insert"
	got, err := m.Get(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Steps[0].Title != "Triage" {
		t.Error("store aliased the inserted ticket")
	}

	got.Steps[0].Title = "mutated after get"
	again, _ := m.Get(context.Background(), "x")
	if again.Steps[0].Title != "Triage" {
		t.Error("store aliased the returned ticket")
	}
}

func TestMemory_NotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
	if err := m.Replace(ctx, &model.Ticket{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace err = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}

	seed(t, m, ticketAt("dup", "t", model.StatusOpen, time.Now()))
	if err := m.Insert(ctx, &model.Ticket{ID: "dup"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Insert dup err = %v, want ErrDuplicate", err)
	}
}
