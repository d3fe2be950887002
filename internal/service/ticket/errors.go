package ticket

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("ticket not found")
	ErrStepNotFound = errors.New("step not found")
	ErrNoteNotFound = errors.New("note not found")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a message meant for the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err means the ticket or one of its
// sub-documents does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrStepNotFound) || errors.Is(err, ErrNoteNotFound)
}
