package domain

import "strings"

// Status represents the lifecycle state of a task, epic or subtask.
type Status string

const (
	StatusNew        Status = "NEW"         // Created, not started
	StatusInProgress Status = "IN_PROGRESS" // Work started
	StatusDone       Status = "DONE"        // Finished
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusNew,
		StatusInProgress,
		StatusDone,
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name case-insensitively.
// Both "in_progress" and "in-progress" are accepted for StatusInProgress.
func ParseStatus(s string) (Status, error) {
	normalized := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !normalized.IsValid() {
		return "", ErrInvalidStatus
	}
	return normalized, nil
}
