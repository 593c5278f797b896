package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the manager. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrTimeConflict = errors.New("time window overlaps an existing item")
	ErrValidation   = errors.New("validation failed")
)

// Domain errors.
var (
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrEpicNotFound    = fmt.Errorf("epic %w", ErrNotFound)
	ErrSubtaskNotFound = fmt.Errorf("subtask %w", ErrNotFound)

	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrNegativeDuration = fmt.Errorf("%w: duration cannot be negative", ErrValidation)
	ErrDurationTooLong  = fmt.Errorf("%w: duration too long", ErrValidation)
	ErrUnknownEpic      = fmt.Errorf("%w: referenced epic does not exist", ErrValidation)
	ErrEpicChanged      = fmt.Errorf("%w: subtask cannot move to another epic", ErrValidation)

	ErrNotInitialized = errors.New("schedule not initialized (run 'schedule init' first)")
	ErrConfigExists   = errors.New("config file already exists")
)
