package server

import (
	"fmt"
	"time"

	"github.com/runoshun/schedule/internal/domain"
)

// TimeLayout is the wire format of start and end times.
const TimeLayout = "2006-01-02T15:04:05"

// itemDTO is the JSON shape shared by tasks, epics and subtasks.
// Fields are ordered to minimize memory padding.
type itemDTO struct {
	Type        domain.Kind   `json:"type,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      domain.Status `json:"status,omitempty"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`  // Epics only, derived
	Subtasks    []int         `json:"subtasks,omitempty"` // Epics only, derived
	ID          int           `json:"id"`
	Duration    int64         `json:"duration"`       // Whole minutes
	Epic        int           `json:"epic,omitempty"` // Subtasks only
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(TimeLayout)
}

func baseDTO(f domain.Fields, kind domain.Kind, loc *time.Location) itemDTO {
	return itemDTO{
		Type:        kind,
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		StartTime:   formatTime(f.StartTime, loc),
		Duration:    int64(f.Duration / time.Minute),
	}
}

// toDTO converts any item into its wire form.
func toDTO(it domain.Item, loc *time.Location) itemDTO {
	d := baseDTO(it.Base(), it.Kind(), loc)
	switch v := it.(type) {
	case domain.Epic:
		d.EndTime = formatTime(v.EndTime, loc)
		d.Subtasks = v.SubtaskIDs
	case domain.Subtask:
		d.Epic = v.EpicID
	}
	return d
}

func toDTOs[T domain.Item](items []T, loc *time.Location) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toDTO(it, loc))
	}
	return out
}

// fields converts the caller-settable part of a request body.
// A type tag, when present, must match want.
func (d itemDTO) fields(want domain.Kind, loc *time.Location) (domain.Fields, error) {
	var f domain.Fields
	if d.Type != "" && d.Type != want {
		return f, fmt.Errorf("%w: expected type %s, got %s", domain.ErrValidation, want, d.Type)
	}
	dur, err := domain.DurationFromMinutes(d.Duration)
	if err != nil {
		return f, err
	}
	f.ID = d.ID
	f.Name = d.Name
	f.Description = d.Description
	f.Status = d.Status
	f.Duration = dur
	if d.StartTime != "" {
		start, err := time.ParseInLocation(TimeLayout, d.StartTime, loc)
		if err != nil {
			return f, fmt.Errorf("%w: startTime must look like %s", domain.ErrValidation, TimeLayout)
		}
		f.StartTime = start
	}
	return f, nil
}
