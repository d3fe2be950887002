package ticket

import (
	"strings"
	"time"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", invalid(field, "%s is required", field)
	}
	return v, nil
}

func checkStatus(s model.Status) error {
	if !s.Valid() {
		return invalid("status", "status must be one of open, in_progress, blocked, done (got %q)", s)
	}
	return nil
}

func checkPriority(p model.Priority) error {
	if !p.Valid() {
		return invalid("priority", "priority must be one of low, med, high (got %q)", p)
	}
	return nil
}

func checkStepStatus(s model.StepStatus) error {
	if !s.Valid() {
		return invalid("status", "step status must be one of todo, doing, done (got %q)", s)
	}
	return nil
}

func defaultSteps() model.Steps {
	steps := make(model.Steps, 0, len(model.DefaultStepTitles))
	for _, title := range model.DefaultStepTitles {
		steps = append(steps, model.Step{ID: model.NewID(), Title: title, Status: model.StepTodo})
	}
	return steps
}

// buildSteps validates step inputs. With keepIDs, a well-formed id that is
// not repeated survives; anything else gets a fresh id.
func buildSteps(in []StepInput, keepIDs bool) (model.Steps, error) {
	steps := make(model.Steps, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, si := range in {
		status := si.Status
		if status == "" {
			status = model.StepTodo
		}
		if err := checkStepStatus(status); err != nil {
			return nil, err
		}

		id := si.ID
		if !keepIDs || !model.IsID(id) || seen[id] {
			id = model.NewID()
		}
		seen[id] = true

		steps = append(steps, model.Step{
			ID:     id,
			Title:  strings.TrimSpace(si.Title),
			Notes:  si.Notes,
			Status: status,
		})
	}
	return steps, nil
}

// buildNotes replaces a note list. Notes whose id matches an existing one
// keep their creation time; the rest are new.
func buildNotes(existing model.Notes, in []NoteInput, now time.Time) (model.Notes, error) {
	notes := make(model.Notes, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, ni := range in {
		body, err := requireText("body", ni.Body)
		if err != nil {
			return nil, invalid("notes", "note body is required")
		}

		if prev, ok := existing.Get(ni.ID); ok && !seen[ni.ID] {
			n := *prev
			if n.Body != body || n.Author != ni.Author {
				n.Body, n.Author, n.UpdatedAt = body, ni.Author, now
			}
			seen[n.ID] = true
			notes = append(notes, n)
			continue
		}

		id := model.NewID()
		seen[id] = true
		notes = append(notes, model.Note{
			ID:        id,
			Body:      body,
			Author:    ni.Author,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return notes, nil
}
