// Package store defines how tickets are persisted. A ticket is one document;
// its steps and notes live inside it, so every write is atomic per ticket
// and deleting a ticket deletes everything it owns.
package store

import (
	"context"
	"errors"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

var (
	ErrNotFound  = errors.New("ticket document not found")
	ErrDuplicate = errors.New("ticket document already exists")
)

// Query selects tickets for listing. Empty fields do not constrain.
type Query struct {
	Status   model.Status
	Priority model.Priority
	// Title matches as a case-insensitive literal substring.
	Title string
	// Project matches the normalized project (see model.NormalizeProject).
	Project string

	Skip  int64
	Limit int64
}

// Tickets is implemented by the Mongo store and the in-memory store.
// Results are always sorted newest first (created_at desc, id desc).
type Tickets interface {
	Insert(ctx context.Context, t *model.Ticket) error
	Get(ctx context.Context, id string) (*model.Ticket, error)
	// Find returns one window of matches plus the total match count,
	// which does not depend on Skip/Limit.
	Find(ctx context.Context, q Query) ([]*model.Ticket, int64, error)
	// Replace overwrites the whole document; the last writer wins.
	Replace(ctx context.Context, t *model.Ticket) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
