package manager

import (
	"fmt"
	"slices"

	"github.com/runoshun/schedule/internal/domain"
)

// CreateSubtask stores a new subtask under an existing epic and returns it.
// The epic's status and time are recomputed. A missing epic fails with
// ErrUnknownEpic and no id is consumed.
func (m *Manager) CreateSubtask(draft domain.Subtask) (domain.Subtask, error) {
	draft.ID = 0
	draft.Status = defaultStatus(draft.Status)
	if err := m.validate(draft.Fields, 0, catSubtask); err != nil {
		return domain.Subtask{}, err
	}
	epic, ok := m.epics[draft.EpicID]
	if !ok {
		m.logger.Warn(0, catSubtask, fmt.Sprintf("rejected: epic #%d does not exist", draft.EpicID))
		return domain.Subtask{}, domain.ErrUnknownEpic
	}
	if w, ok := domain.WindowOf(draft); ok {
		if err := m.checkConflict(w, 0, catSubtask); err != nil {
			return domain.Subtask{}, err
		}
	}

	draft.ID = m.allocID()
	sub := draft
	m.subtasks[sub.ID] = &sub
	epic.SubtaskIDs = append(epic.SubtaskIDs, sub.ID)
	m.recompute(epic)
	m.reindex(&sub)
	m.logger.Info(sub.ID, catSubtask, fmt.Sprintf("created %q in epic #%d", sub.Name, sub.EpicID))

	return sub, m.persist()
}

// UpdateSubtask replaces the mutable fields of an existing subtask and
// recomputes its epic. An EpicID of 0 keeps the stored epic; any other
// value must match it. An empty status keeps the stored one.
func (m *Manager) UpdateSubtask(s domain.Subtask) (domain.Subtask, error) {
	stored, ok := m.subtasks[s.ID]
	if !ok {
		return domain.Subtask{}, domain.ErrSubtaskNotFound
	}
	if s.EpicID == 0 {
		s.EpicID = stored.EpicID
	}
	if s.EpicID != stored.EpicID {
		m.logger.Warn(s.ID, catSubtask, fmt.Sprintf("rejected: cannot move from epic #%d to #%d", stored.EpicID, s.EpicID))
		return domain.Subtask{}, domain.ErrEpicChanged
	}
	if s.Status == "" {
		s.Status = stored.Status
	}
	if err := m.validate(s.Fields, s.ID, catSubtask); err != nil {
		return domain.Subtask{}, err
	}
	if w, ok := domain.WindowOf(s); ok {
		if err := m.checkConflict(w, s.ID, catSubtask); err != nil {
			return domain.Subtask{}, err
		}
	}

	*stored = s
	m.reindex(stored)
	if epic, ok := m.epics[s.EpicID]; ok {
		m.recompute(epic)
	}
	m.logger.Info(s.ID, catSubtask, "updated")

	return *stored, m.persist()
}

// GetSubtask returns the subtask with the given id and records the view.
func (m *Manager) GetSubtask(id int) (domain.Subtask, error) {
	s, ok := m.subtasks[id]
	if !ok {
		return domain.Subtask{}, domain.ErrSubtaskNotFound
	}
	if err := m.view(s); err != nil {
		return domain.Subtask{}, err
	}
	return *s, nil
}

// Subtasks returns every subtask ordered by id. Views are not recorded.
func (m *Manager) Subtasks() []domain.Subtask {
	return sortedValues(m.subtasks, identity[domain.Subtask])
}

// DeleteSubtask removes a subtask, unlinks it from its epic and recomputes
// the epic.
func (m *Manager) DeleteSubtask(id int) error {
	s, ok := m.subtasks[id]
	if !ok {
		return domain.ErrSubtaskNotFound
	}
	delete(m.subtasks, id)
	m.forget(id)
	if epic, ok := m.epics[s.EpicID]; ok {
		epic.SubtaskIDs = slices.DeleteFunc(epic.SubtaskIDs, func(sid int) bool { return sid == id })
		m.recompute(epic)
	}
	m.logger.Info(id, catSubtask, "deleted")
	return m.persist()
}

// DeleteAllSubtasks removes every subtask and resets every epic to NEW with
// an empty time window.
func (m *Manager) DeleteAllSubtasks() error {
	for id := range m.subtasks {
		m.forget(id)
	}
	n := len(m.subtasks)
	clear(m.subtasks)
	for _, e := range m.epics {
		e.SubtaskIDs = nil
		m.recompute(e)
	}
	m.logger.Info(0, catSubtask, fmt.Sprintf("deleted all %d subtasks", n))
	return m.persist()
}
