package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/service/ticket"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/reqctx"
)

type TicketHandler struct {
	svc ticket.Service
}

func NewTicketHandler(svc ticket.Service) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func mapTicketError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ticket.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, ticket.ErrNotFound):
		return notFound(c, "Not found")
	case errors.Is(err, ticket.ErrStepNotFound):
		return notFound(c, "Step not found")
	case errors.Is(err, ticket.ErrNoteNotFound):
		return notFound(c, "Note not found")
	default:
		reqctx.Logger(c.Context()).Error("ticket request failed",
			"method", c.Method(), "path", c.Path(), "err", err)
		return internalError(c)
	}
}

type stepBody struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Notes  string `json:"notes"`
	Status string `json:"status"`
}

type noteBody struct {
	ID     string `json:"id"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

func toStepInputs(in []stepBody) []ticket.StepInput {
	out := make([]ticket.StepInput, len(in))
	for i, s := range in {
		out[i] = ticket.StepInput{ID: s.ID, Title: s.Title, Notes: s.Notes, Status: model.StepStatus(s.Status)}
	}
	return out
}

func toNoteInputs(in []noteBody) []ticket.NoteInput {
	out := make([]ticket.NoteInput, len(in))
	for i, n := range in {
		out[i] = ticket.NoteInput{ID: n.ID, Body: n.Body, Author: n.Author}
	}
	return out
}

// stringField returns m[key] only when it is a JSON string.
func stringField(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// GET /tickets
func (h *TicketHandler) List(c fiber.Ctx) error {
	var q struct {
		Status   string `query:"status"`
		Priority string `query:"priority"`
		Q        string `query:"q"`
		Project  string `query:"project"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query")
	}

	// unparseable page values fall back to the defaults
	res, err := h.svc.List(c.Context(), ticket.ListRequest{
		Status:   q.Status,
		Priority: q.Priority,
		Query:    q.Q,
		Project:  q.Project,
		Page:     fiber.Query[int](c, "page"),
		PageSize: fiber.Query[int](c, "pageSize"),
	})
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, res)
}

// POST /tickets
func (h *TicketHandler) Create(c fiber.Ctx) error {
	var body struct {
		Project     string     `json:"project"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		Assignee    string     `json:"assignee"`
		Steps       []stepBody `json:"steps"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.Create(c.Context(), ticket.CreateRequest{
		Project:     body.Project,
		Title:       body.Title,
		Description: body.Description,
		Status:      model.Status(body.Status),
		Priority:    model.Priority(body.Priority),
		Assignee:    body.Assignee,
		Steps:       toStepInputs(body.Steps),
	})
	if err != nil {
		return mapTicketError(c, err)
	}
	return created(c, t)
}

// GET /tickets/:id
func (h *TicketHandler) Get(c fiber.Ctx) error {
	t, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}

// PATCH /tickets/:id
//
// id, createdAt, updatedAt and unknown fields are ignored.
func (h *TicketHandler) Update(c fiber.Ctx) error {
	var body struct {
		Project     *string     `json:"project"`
		Title       *string     `json:"title"`
		Description *string     `json:"description"`
		Status      *string     `json:"status"`
		Priority    *string     `json:"priority"`
		Assignee    *string     `json:"assignee"`
		Steps       *[]stepBody `json:"steps"`
		Notes       *[]noteBody `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p := ticket.Patch{
		Project:     body.Project,
		Title:       body.Title,
		Description: body.Description,
		Assignee:    body.Assignee,
	}
	if body.Status != nil {
		s := model.Status(*body.Status)
		p.Status = &s
	}
	if body.Priority != nil {
		pr := model.Priority(*body.Priority)
		p.Priority = &pr
	}
	if body.Steps != nil {
		steps := toStepInputs(*body.Steps)
		p.Steps = &steps
	}
	if body.Notes != nil {
		notes := toNoteInputs(*body.Notes)
		p.Notes = &notes
	}

	t, err := h.svc.Update(c.Context(), c.Params("id"), p)
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}

// DELETE /tickets/:id
func (h *TicketHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, fiber.Map{"ok": true})
}

// POST /tickets/:id/steps
func (h *TicketHandler) AddStep(c fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.AddStep(c.Context(), c.Params("id"), body.Title)
	if err != nil {
		return mapTicketError(c, err)
	}
	return created(c, t)
}

// PATCH /tickets/:id/steps/:stepId
//
// Only string-typed title, notes and status are applied.
func (h *TicketHandler) UpdateStep(c fiber.Ctx) error {
	var body map[string]any
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p := ticket.StepPatch{
		Title: stringField(body, "title"),
		Notes: stringField(body, "notes"),
	}
	if s := stringField(body, "status"); s != nil {
		st := model.StepStatus(*s)
		p.Status = &st
	}

	t, err := h.svc.UpdateStep(c.Context(), c.Params("id"), c.Params("stepId"), p)
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}

// DELETE /tickets/:id/steps/:stepId
func (h *TicketHandler) DeleteStep(c fiber.Ctx) error {
	t, err := h.svc.DeleteStep(c.Context(), c.Params("id"), c.Params("stepId"))
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}

// POST /tickets/:id/notes
func (h *TicketHandler) AddNote(c fiber.Ctx) error {
	var body struct {
		Body   string `json:"body"`
		Author string `json:"author"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.AddNote(c.Context(), c.Params("id"), body.Body, body.Author)
	if err != nil {
		return mapTicketError(c, err)
	}
	return created(c, t)
}

// PATCH /tickets/:id/notes/:noteId
//
// Only string-typed body and author are applied.
func (h *TicketHandler) UpdateNote(c fiber.Ctx) error {
	var body map[string]any
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.UpdateNote(c.Context(), c.Params("id"), c.Params("noteId"), ticket.NotePatch{
		Body:   stringField(body, "body"),
		Author: stringField(body, "author"),
	})
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}

// DELETE /tickets/:id/notes/:noteId
func (h *TicketHandler) DeleteNote(c fiber.Ctx) error {
	t, err := h.svc.DeleteNote(c.Context(), c.Params("id"), c.Params("noteId"))
	if err != nil {
		return mapTicketError(c, err)
	}
	return ok(c, t)
}
