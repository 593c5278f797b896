package domain

import "time"

// EpicStatus folds subtask statuses into an epic status.
// No subtasks, or all NEW, yields NEW. All DONE yields DONE.
// Any other combination yields IN_PROGRESS.
func EpicStatus(subtasks []Subtask) Status {
	if len(subtasks) == 0 {
		return StatusNew
	}

	allNew, allDone := true, true
	for _, s := range subtasks {
		if s.Status != StatusNew {
			allNew = false
		}
		if s.Status != StatusDone {
			allDone = false
		}
	}

	switch {
	case allDone:
		return StatusDone
	case allNew:
		return StatusNew
	default:
		return StatusInProgress
	}
}

// EpicTimes folds subtask windows into an epic window.
// total is the sum of all durations; start and end span the scheduled
// subtasks only and are zero when none is scheduled. total is not end-start.
func EpicTimes(subtasks []Subtask) (start, end time.Time, total time.Duration) {
	for _, s := range subtasks {
		total += s.Duration
		if !s.IsScheduled() {
			continue
		}
		if start.IsZero() || s.StartTime.Before(start) {
			start = s.StartTime
		}
		if e := s.End(); end.IsZero() || e.After(end) {
			end = e
		}
	}
	return start, end, total
}

// Recompute derives the epic's status and time window from its current subtasks.
func (e *Epic) Recompute(subtasks []Subtask) {
	e.Status = EpicStatus(subtasks)
	e.StartTime, e.EndTime, e.Duration = EpicTimes(subtasks)
}
