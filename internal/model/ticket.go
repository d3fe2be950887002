package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityMed  Priority = "med"
	PriorityHigh Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

type StepStatus string

const (
	StepTodo  StepStatus = "todo"
	StepDoing StepStatus = "doing"
	StepDone  StepStatus = "done"
)

func (s StepStatus) Valid() bool {
	switch s {
	case StepTodo, StepDoing, StepDone:
		return true
	}
	return false
}

// Ticket is the root document. Steps and Notes are owned by it and never
// stored on their own.
type Ticket struct {
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Assignee    string    `json:"assignee"`
	Steps       Steps     `json:"steps"`
	Notes       Notes     `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Step struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Notes  string     `json:"notes,omitempty"`
	Status StepStatus `json:"status"`
}

type Note struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultStepTitles is the checklist a ticket starts with when the caller
// supplies no steps.
var DefaultStepTitles = []string{"Triage", "Reproduce", "Fix & verify"}

// NewID returns a fresh 24-hex document identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// NormalizeProject folds a project label for grouping and filtering.
func NormalizeProject(project string) string {
	return strings.ToLower(strings.TrimSpace(project))
}

// Clone returns a deep copy; the owned collections are not shared.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.Steps = t.Steps.clone()
	c.Notes = t.Notes.clone()
	return &c
}

// IsID reports whether s has the shape of an identifier produced by NewID.
func IsID(s string) bool {
	return primitive.IsValidObjectID(s)
}
