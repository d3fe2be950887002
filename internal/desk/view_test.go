package desk

import (
	"reflect"
	"testing"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

func tickets(pairs ...string) []model.Ticket {
	out := make([]model.Ticket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Ticket{ID: pairs[i], Project: pairs[i+1]})
	}
	return out
}

func ids(ts []model.Ticket) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestProjects(t *testing.T) {
	list := tickets("1", " Acme ", "2", "acme", "3", "Beta", "4", "   ", "5", "ACME", "6", "alpha")

	want := []ProjectOption{
		{Value: "acme", Label: "Acme"},
		{Value: "alpha", Label: "alpha"},
		{Value: "beta", Label: "Beta"},
	}
	if got := Projects(list); !reflect.DeepEqual(got, want) {
		t.Errorf("Projects = %+v, want %+v", got, want)
	}
	if got := Projects(nil); len(got) != 0 {
		t.Errorf("Projects(nil) = %+v", got)
	}
}

func TestVisible(t *testing.T) {
	list := tickets("1", "Acme", "2", "Beta", "3", " acme")

	tests := []struct {
		filter string
		want   []string
	}{
		{AllProjects, []string{"1", "2", "3"}},
		{"acme", []string{"1", "3"}},
		{"beta", []string{"2"}},
		{"nope", []string{}},
	}
	for _, tt := range tests {
		if got := ids(Visible(list, tt.filter)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Visible(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestSelectedIn(t *testing.T) {
	list := tickets("1", "a", "2", "b")
	if got := SelectedIn(list, "2"); got == nil || got.ID != "2" {
		t.Errorf("SelectedIn(2) = %+v", got)
	}
	if got := SelectedIn(list, "9"); got != nil {
		t.Errorf("SelectedIn(9) = %+v", got)
	}
	if got := SelectedIn(list, ""); got != nil {
		t.Errorf("SelectedIn(\"\") = %+v", got)
	}
}

func TestReconcile(t *testing.T) {
	list := tickets("1", "Acme", "2", "Beta", "3", "Acme")

	tests := []struct {
		name     string
		state    State
		selected string
	}{
		{"visible selection kept", State{Tickets: list, Filter: "acme", SelectedID: "3"}, "3"},
		{"hidden selection moves to first visible", State{Tickets: list, Filter: "beta", SelectedID: "3"}, "2"},
		{"no selection picks first", State{Tickets: list}, "1"},
		{"empty view clears", State{Tickets: list, Filter: "gamma", SelectedID: "1"}, ""},
		{"deleted selection", State{Tickets: list, SelectedID: "9"}, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reconcile(tt.state).SelectedID; got != tt.selected {
				t.Errorf("SelectedID = %q, want %q", got, tt.selected)
			}
		})
	}
}
