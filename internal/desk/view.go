// Package desk holds the client-side ticket desk: the ticket list as last
// fetched, the project filter and the selection. Everything shown is
// derived from that state by the pure functions in this file.
package desk

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

// AllProjects is the filter that shows every ticket. A real project never
// normalizes to it because projects must be non-blank.
const AllProjects = ""

// ProjectOption is one entry of the project picker.
type ProjectOption struct {
	Value string // normalized
	Label string // first-seen spelling, trimmed
}

// State is the source of truth. Derived views are recomputed from it.
type State struct {
	Tickets    []model.Ticket
	SelectedID string
	Filter     string
	Loading    bool
	Err        error
}

// View is a State plus everything derived from it.
type View struct {
	State
	Projects []ProjectOption
	Visible  []model.Ticket
	Selected *model.Ticket
}

func NormalizeProject(p string) string {
	return model.NormalizeProject(p)
}

// Projects lists the distinct normalized projects in tickets, labelled with
// the first spelling seen and sorted by label. Blank projects are skipped.
func Projects(tickets []model.Ticket) []ProjectOption {
	seen := make(map[string]bool, len(tickets))
	opts := make([]ProjectOption, 0, len(tickets))
	for _, t := range tickets {
		norm := NormalizeProject(t.Project)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		opts = append(opts, ProjectOption{Value: norm, Label: strings.TrimSpace(t.Project)})
	}
	slices.SortStableFunc(opts, func(a, b ProjectOption) int {
		if c := cmp.Compare(NormalizeProject(a.Label), NormalizeProject(b.Label)); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return opts
}

// Visible returns the tickets the filter lets through, in list order.
func Visible(tickets []model.Ticket, filter string) []model.Ticket {
	if filter == AllProjects {
		return tickets
	}
	return lo.Filter(tickets, func(t model.Ticket, _ int) bool {
		return NormalizeProject(t.Project) == filter
	})
}

// SelectedIn finds id among the visible tickets.
func SelectedIn(visible []model.Ticket, id string) *model.Ticket {
	if id == "" {
		return nil
	}
	t, ok := lo.Find(visible, func(t model.Ticket) bool { return t.ID == id })
	if !ok {
		return nil
	}
	return &t
}

// Reconcile moves the selection to the first visible ticket when the
// current one is not visible, or clears it when nothing is.
func Reconcile(s State) State {
	visible := Visible(s.Tickets, s.Filter)
	if SelectedIn(visible, s.SelectedID) != nil {
		return s
	}
	s.SelectedID = ""
	if len(visible) > 0 {
		s.SelectedID = visible[0].ID
	}
	return s
}

// Derive computes the full view of s.
func Derive(s State) View {
	visible := Visible(s.Tickets, s.Filter)
	return View{
		State:    s,
		Projects: Projects(s.Tickets),
		Visible:  visible,
		Selected: SelectedIn(visible, s.SelectedID),
	}
}
