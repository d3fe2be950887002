package desk

import (
	"context"
	"sync"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/client"
)

// pageSize matches the server's page cap so a full fetch takes few calls.
const pageSize = 500

// API is the part of client.Client the desk uses.
type API interface {
	List(ctx context.Context, p client.ListParams) (*client.ListPage, error)
	Create(ctx context.Context, in client.TicketInput) (*model.Ticket, error)
	Update(ctx context.Context, id string, p client.TicketPatch) (*model.Ticket, error)
	Delete(ctx context.Context, id string) error
	AddStep(ctx context.Context, id, title string) (*model.Ticket, error)
	UpdateStep(ctx context.Context, id, stepID string, p client.StepPatch) (*model.Ticket, error)
	DeleteStep(ctx context.Context, id, stepID string) (*model.Ticket, error)
	AddNote(ctx context.Context, id, body, author string) (*model.Ticket, error)
	UpdateNote(ctx context.Context, id, noteID string, p client.NotePatch) (*model.Ticket, error)
	DeleteNote(ctx context.Context, id, noteID string) (*model.Ticket, error)
}

// Controller owns the desk state. Every write goes to the server first and
// is followed by a full re-fetch; nothing is merged locally. A failed call
// records Err and leaves tickets, selection and filter as they were.
//
// Methods are safe for concurrent use. Overlapping refreshes each apply
// their result when it arrives, so the last response wins.
type Controller struct {
	api API

	mu       sync.Mutex
	state    State
	inflight int
}

func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Snapshot returns the state with its derived views.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.state)
}

// Load fetches every ticket, resets the filter and selects the first one.
func (c *Controller) Load(ctx context.Context) error {
	return c.sync(ctx, func(s *State, tickets []model.Ticket) {
		s.Filter = AllProjects
		s.SelectedID = ""
		if len(tickets) > 0 {
			s.SelectedID = tickets[0].ID
		}
	})
}

// Refresh re-fetches the list and keeps the selection if it is still visible.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.sync(ctx, nil)
}

func (c *Controller) SetFilter(project string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = NormalizeProject(project)
	c.state = Reconcile(c.state)
}

func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedID = id
	c.state = Reconcile(c.state)
}

// Create switches the filter to the new ticket's project and selects it.
func (c *Controller) Create(ctx context.Context, in client.TicketInput) (*model.Ticket, error) {
	t, err := c.api.Create(ctx, in)
	if err != nil {
		return nil, c.fail(err)
	}
	return t, c.sync(ctx, func(s *State, _ []model.Ticket) {
		s.Filter = NormalizeProject(t.Project)
		s.SelectedID = t.ID
	})
}

// Update follows a project change with the filter and reselects the ticket.
func (c *Controller) Update(ctx context.Context, id string, p client.TicketPatch) (*model.Ticket, error) {
	t, err := c.api.Update(ctx, id, p)
	if err != nil {
		return nil, c.fail(err)
	}
	return t, c.sync(ctx, func(s *State, _ []model.Ticket) {
		if p.Project != nil {
			if norm := NormalizeProject(*p.Project); norm != "" && norm != s.Filter {
				s.Filter = norm
			}
		}
		s.SelectedID = t.ID
	})
}

// Delete removes the ticket; the selection falls back to the first
// visible ticket.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return c.fail(err)
	}
	return c.sync(ctx, func(s *State, _ []model.Ticket) {
		s.SelectedID = ""
	})
}

func (c *Controller) AddStep(ctx context.Context, id, title string) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.AddStep(ctx, id, title) })
}

func (c *Controller) UpdateStep(ctx context.Context, id, stepID string, p client.StepPatch) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.UpdateStep(ctx, id, stepID, p) })
}

func (c *Controller) DeleteStep(ctx context.Context, id, stepID string) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.DeleteStep(ctx, id, stepID) })
}

func (c *Controller) AddNote(ctx context.Context, id, body, author string) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.AddNote(ctx, id, body, author) })
}

func (c *Controller) UpdateNote(ctx context.Context, id, noteID string, p client.NotePatch) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.UpdateNote(ctx, id, noteID, p) })
}

func (c *Controller) DeleteNote(ctx context.Context, id, noteID string) (*model.Ticket, error) {
	return c.child(ctx, func() (*model.Ticket, error) { return c.api.DeleteNote(ctx, id, noteID) })
}

// child runs a step or note write, then refreshes and keeps the parent
// ticket selected.
func (c *Controller) child(ctx context.Context, call func() (*model.Ticket, error)) (*model.Ticket, error) {
	t, err := call()
	if err != nil {
		return nil, c.fail(err)
	}
	return t, c.sync(ctx, func(s *State, _ []model.Ticket) {
		s.SelectedID = t.ID
	})
}

// sync fetches the full list and installs it. adjust may move the filter
// or selection before the selection is reconciled with what is visible.
func (c *Controller) sync(ctx context.Context, adjust func(s *State, tickets []model.Ticket)) error {
	c.begin()
	tickets, err := fetchAll(ctx, c.api)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	c.state.Loading = c.inflight > 0
	if err != nil {
		c.state.Err = err
		return err
	}

	next := c.state
	next.Tickets = tickets
	next.Err = nil
	if adjust != nil {
		adjust(&next, tickets)
	}
	c.state = Reconcile(next)
	return nil
}

func (c *Controller) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.state.Loading = true
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = err
	return err
}

// fetchAll walks every page of the unfiltered list.
func fetchAll(ctx context.Context, api API) ([]model.Ticket, error) {
	var all []model.Ticket
	for page := 1; ; page++ {
		res, err := api.List(ctx, client.ListParams{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) == 0 || int64(len(all)) >= res.Total {
			break
		}
	}
	if all == nil {
		all = []model.Ticket{}
	}
	return all, nil
}
