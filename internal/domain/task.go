// Package domain contains core business entities and interfaces.
package domain

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Kind tags the variant of an Item.
type Kind string

const (
	KindTask    Kind = "TASK"
	KindEpic    Kind = "EPIC"
	KindSubtask Kind = "SUBTASK"
)

// IsValid returns true if the kind is one of the three item variants.
func (k Kind) IsValid() bool {
	return k == KindTask || k == KindEpic || k == KindSubtask
}

// Fields is the field set shared by every item kind.
// Fields are ordered to minimize memory padding.
type Fields struct {
	StartTime   time.Time     `json:"startTime,omitzero" yaml:"startTime,omitempty"`      // Scheduled start (zero = unscheduled)
	Name        string        `json:"name" yaml:"name"`                                   // Name (required)
	Description string        `json:"description,omitempty" yaml:"description,omitempty"` // Description (optional)
	Status      Status        `json:"status" yaml:"status"`                               // Current status
	ID          int           `json:"id" yaml:"id"`                                       // Assigned by the manager, never changes afterwards
	Duration    time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`       // Planned length of work (non-negative)
}

// IsScheduled returns true if the item has a start time.
func (f Fields) IsScheduled() bool {
	return !f.StartTime.IsZero()
}

// End returns StartTime + Duration, or the zero time if the item is unscheduled.
func (f Fields) End() time.Time {
	if f.StartTime.IsZero() {
		return time.Time{}
	}
	return f.StartTime.Add(f.Duration)
}

// MaxDurationMinutes is the longest duration in whole minutes that fits a time.Duration.
const MaxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// DurationFromMinutes converts a whole-minute count read from outside the process.
func DurationFromMinutes(minutes int64) (time.Duration, error) {
	switch {
	case minutes < 0:
		return 0, ErrNegativeDuration
	case minutes > MaxDurationMinutes:
		return 0, ErrDurationTooLong
	}
	return time.Duration(minutes) * time.Minute, nil
}

// Base returns a copy of the shared fields.
func (f Fields) Base() Fields {
	return f
}

// Validate checks the caller-settable fields.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.Status != "" && !f.Status.IsValid() {
		return ErrInvalidStatus
	}
	if f.Duration < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// Item is the closed set {Task, Epic, Subtask}.
// Only types in this package can implement it.
type Item interface {
	Kind() Kind
	Base() Fields
	End() time.Time
	item()
}

// Task is a standalone unit of work.
type Task struct {
	Fields `yaml:",inline"`
}

// Kind returns KindTask.
func (Task) Kind() Kind { return KindTask }

func (Task) item() {}

// Epic aggregates subtasks. Its status and time window are derived from them
// and are never taken from caller input.
// Fields are ordered to minimize memory padding.
type Epic struct {
	EndTime    time.Time `json:"endTime,omitzero" yaml:"endTime,omitempty"`        // Latest subtask end (zero if no subtask is scheduled)
	SubtaskIDs []int     `json:"subtaskIds,omitempty" yaml:"subtaskIds,omitempty"` // Owned subtask ids in insertion order
	Fields     `yaml:",inline"`
}

// Kind returns KindEpic.
func (Epic) Kind() Kind { return KindEpic }

func (Epic) item() {}

// End returns the derived end of the epic's window.
func (e Epic) End() time.Time {
	return e.EndTime
}

// Clone returns a copy that shares no memory with e.
func (e Epic) Clone() Epic {
	e.SubtaskIDs = slices.Clone(e.SubtaskIDs)
	return e
}

// Subtask belongs to exactly one epic.
type Subtask struct {
	Fields `yaml:",inline"`
	EpicID int `json:"epicId" yaml:"epicId"` // Owning epic, immutable after creation
}

// Kind returns KindSubtask.
func (Subtask) Kind() Kind { return KindSubtask }

func (Subtask) item() {}

// Equal reports whether a and b denote the same item.
// Identity is the id alone; other fields are ignored.
func Equal(a, b Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Base().ID == b.Base().ID
}

// Clone returns a detached copy of an item, suitable for freezing a view.
// Returns nil for nil input, including typed nil pointers.
func Clone(it Item) Item {
	switch v := it.(type) {
	case Task:
		return v
	case *Task:
		if v == nil {
			return nil
		}
		return *v
	case Epic:
		return v.Clone()
	case *Epic:
		if v == nil {
			return nil
		}
		return v.Clone()
	case Subtask:
		return v
	case *Subtask:
		if v == nil {
			return nil
		}
		return *v
	default:
		return nil
	}
}

// Window is the half-open interval [Start, End) an item occupies.
type Window struct {
	Start time.Time
	End   time.Time
	ID    int
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching intervals do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// WindowOf returns the time window of a scheduled item.
// The second result is false if the item has no start time.
func WindowOf(it Item) (Window, bool) {
	f := it.Base()
	if !f.IsScheduled() {
		return Window{}, false
	}
	return Window{ID: f.ID, Start: f.StartTime, End: it.End()}, true
}
