package ticket

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Event kinds published after a successful write.
const (
	EventCreated     = "created"
	EventUpdated     = "updated"
	EventDeleted     = "deleted"
	EventStepAdded   = "step_added"
	EventStepUpdated = "step_updated"
	EventStepDeleted = "step_deleted"
	EventNoteAdded   = "note_added"
	EventNoteUpdated = "note_updated"
	EventNoteDeleted = "note_deleted"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	Status   string
	Priority string
	Query    string // title substring
	Project  string // compared normalized
	Page     int
	PageSize int
}

type ListResult struct {
	Items    []*model.Ticket `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type StepInput struct {
	ID     string
	Title  string
	Notes  string
	Status model.StepStatus
}

type NoteInput struct {
	ID     string
	Body   string
	Author string
}

type CreateRequest struct {
	Project     string
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	Assignee    string
	Steps       []StepInput
}

// Patch holds the top-level fields a caller wants to change. Nil means
// "leave as is". Steps and Notes replace the whole collection.
type Patch struct {
	Project     *string
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
	Assignee    *string
	Steps       *[]StepInput
	Notes       *[]NoteInput
}

type StepPatch struct {
	Title  *string
	Notes  *string
	Status *model.StepStatus
}

type NotePatch struct {
	Body   *string
	Author *string
}

// EventPublisher is notified after every successful write. Implementations
// must not block and must swallow their own failures.
type EventPublisher interface {
	Publish(ctx context.Context, kind, ticketID string, payload any)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	Create(ctx context.Context, req CreateRequest) (*model.Ticket, error)
	Get(ctx context.Context, id string) (*model.Ticket, error)
	Update(ctx context.Context, id string, p Patch) (*model.Ticket, error)
	Delete(ctx context.Context, id string) error

	AddStep(ctx context.Context, id, title string) (*model.Ticket, error)
	UpdateStep(ctx context.Context, id, stepID string, p StepPatch) (*model.Ticket, error)
	DeleteStep(ctx context.Context, id, stepID string) (*model.Ticket, error)

	AddNote(ctx context.Context, id, body, author string) (*model.Ticket, error)
	UpdateNote(ctx context.Context, id, noteID string, p NotePatch) (*model.Ticket, error)
	DeleteNote(ctx context.Context, id, noteID string) (*model.Ticket, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type ticketService struct {
	store store.Tickets
	pub   EventPublisher
	now   func() time.Time
}

type Option func(*ticketService)

// WithClock replaces the time source; tests use it to order tickets.
func WithClock(now func() time.Time) Option {
	return func(s *ticketService) { s.now = now }
}

func New(st store.Tickets, pub EventPublisher, opts ...Option) Service {
	s := &ticketService{
		store: st,
		pub:   pub,
		now:   func() time.Time { return time.Now() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp matches the precision the document store keeps.
func (s *ticketService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *ticketService) publish(ctx context.Context, kind, id string, payload any) {
	if s.pub != nil {
		s.pub.Publish(ctx, kind, id, payload)
	}
}

func (s *ticketService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	if req.Page < 1 {
		req.Page = DefaultPage
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}

	q := store.Query{
		Title:   req.Query,
		Project: model.NormalizeProject(req.Project),
		Skip:    pageOffset(req.Page, req.PageSize),
		Limit:   int64(req.PageSize),
	}
	if req.Status != "" {
		q.Status = model.Status(req.Status)
		if err := checkStatus(q.Status); err != nil {
			return nil, err
		}
	}
	if req.Priority != "" {
		q.Priority = model.Priority(req.Priority)
		if err := checkPriority(q.Priority); err != nil {
			return nil, err
		}
	}

	items, total, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if items == nil {
		items = []*model.Ticket{}
	}

	return &ListResult{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// pageOffset saturates at math.MaxInt64 so a huge page yields an empty window.
func pageOffset(page, pageSize int) int64 {
	prev, size := int64(page-1), int64(pageSize)
	if prev > math.MaxInt64/size {
		return math.MaxInt64
	}
	return prev * size
}

func (s *ticketService) Create(ctx context.Context, req CreateRequest) (*model.Ticket, error) {
	if _, err := requireText("project", req.Project); err != nil {
		return nil, err
	}
	title, err := requireText("title", req.Title)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusOpen
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMed
	}
	if err := checkPriority(priority); err != nil {
		return nil, err
	}

	steps := defaultSteps()
	if len(req.Steps) > 0 {
		if steps, err = buildSteps(req.Steps, false); err != nil {
			return nil, err
		}
	}

	now := s.timestamp()
	t := &model.Ticket{
		ID:          model.NewID(),
		Project:     req.Project,
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Assignee:    req.Assignee,
		Steps:       steps,
		Notes:       model.Notes{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.publish(ctx, EventCreated, t.ID, t)
	return t, nil
}

func (s *ticketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// mutate loads a ticket, applies fn to the copy and writes the whole
// document back. fn runs before any write, so a rejected change persists
// nothing.
func (s *ticketService) mutate(ctx context.Context, id, kind string, fn func(t *model.Ticket, now time.Time) error) (*model.Ticket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	if err := fn(t, now); err != nil {
		return nil, err
	}
	t.UpdatedAt = now

	if err := s.store.Replace(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save ticket: %w", err)
	}

	s.publish(ctx, kind, t.ID, t)
	return t, nil
}

func (s *ticketService) Update(ctx context.Context, id string, p Patch) (*model.Ticket, error) {
	return s.mutate(ctx, id, EventUpdated, func(t *model.Ticket, now time.Time) error {
		if p.Project != nil {
			if _, err := requireText("project", *p.Project); err != nil {
				return err
			}
			t.Project = *p.Project
		}
		if p.Title != nil {
			title, err := requireText("title", *p.Title)
			if err != nil {
				return err
			}
			t.Title = title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Status != nil {
			if err := checkStatus(*p.Status); err != nil {
				return err
			}
			t.Status = *p.Status
		}
		if p.Priority != nil {
			if err := checkPriority(*p.Priority); err != nil {
				return err
			}
			t.Priority = *p.Priority
		}
		if p.Assignee != nil {
			t.Assignee = *p.Assignee
		}
		if p.Steps != nil {
			steps, err := buildSteps(*p.Steps, true)
			if err != nil {
				return err
			}
			t.Steps = steps
		}
		if p.Notes != nil {
			notes, err := buildNotes(t.Notes, *p.Notes, now)
			if err != nil {
				return err
			}
			t.Notes = notes
		}
		return nil
	})
}

func (s *ticketService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete ticket: %w", err)
	}
	s.publish(ctx, EventDeleted, id, map[string]string{"id": id})
	return nil
}

func (s *ticketService) AddStep(ctx context.Context, id, title string) (*model.Ticket, error) {
	title, err := requireText("title", title)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, EventStepAdded, func(t *model.Ticket, _ time.Time) error {
		t.Steps.Append(model.Step{ID: model.NewID(), Title: title, Status: model.StepTodo})
		return nil
	})
}

func (s *ticketService) UpdateStep(ctx context.Context, id, stepID string, p StepPatch) (*model.Ticket, error) {
	var title string
	if p.Title != nil {
		var err error
		if title, err = requireText("title", *p.Title); err != nil {
			return nil, err
		}
	}
	if p.Status != nil {
		if err := checkStepStatus(*p.Status); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, id, EventStepUpdated, func(t *model.Ticket, _ time.Time) error {
		step, ok := t.Steps.Get(stepID)
		if !ok {
			return ErrStepNotFound
		}
		if p.Title != nil {
			step.Title = title
		}
		if p.Notes != nil {
			step.Notes = *p.Notes
		}
		if p.Status != nil {
			step.Status = *p.Status
		}
		return nil
	})
}

func (s *ticketService) DeleteStep(ctx context.Context, id, stepID string) (*model.Ticket, error) {
	return s.mutate(ctx, id, EventStepDeleted, func(t *model.Ticket, _ time.Time) error {
		if !t.Steps.Remove(stepID) {
			return ErrStepNotFound
		}
		return nil
	})
}

func (s *ticketService) AddNote(ctx context.Context, id, body, author string) (*model.Ticket, error) {
	body, err := requireText("body", body)
	if err != nil {
		return nil, invalid("body", "note body is required")
	}
	return s.mutate(ctx, id, EventNoteAdded, func(t *model.Ticket, now time.Time) error {
		t.Notes.Append(model.Note{
			ID:        model.NewID(),
			Body:      body,
			Author:    author,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	})
}

func (s *ticketService) UpdateNote(ctx context.Context, id, noteID string, p NotePatch) (*model.Ticket, error) {
	var body string
	if p.Body != nil {
		var err error
		if body, err = requireText("body", *p.Body); err != nil {
			return nil, invalid("body", "note body is required")
		}
	}
	return s.mutate(ctx, id, EventNoteUpdated, func(t *model.Ticket, now time.Time) error {
		note, ok := t.Notes.Get(noteID)
		if !ok {
			return ErrNoteNotFound
		}
		if p.Body != nil {
			note.Body = body
		}
		if p.Author != nil {
			note.Author = *p.Author
		}
		note.UpdatedAt = now
		return nil
	})
}

func (s *ticketService) DeleteNote(ctx context.Context, id, noteID string) (*model.Ticket, error) {
	return s.mutate(ctx, id, EventNoteDeleted, func(t *model.Ticket, _ time.Time) error {
		if !t.Notes.Remove(noteID) {
			return ErrNoteNotFound
		}
		return nil
	})
}
