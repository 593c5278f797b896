package manager

import (
	"fmt"

	"github.com/runoshun/schedule/internal/domain"
)

// subtasksOf returns the stored subtasks of e in link order.
// Linked ids without a stored subtask are skipped.
func (m *Manager) subtasksOf(e *domain.Epic) []domain.Subtask {
	out := make([]domain.Subtask, 0, len(e.SubtaskIDs))
	for _, id := range e.SubtaskIDs {
		if s, ok := m.subtasks[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// recompute derives e's status and time window from its subtasks.
func (m *Manager) recompute(e *domain.Epic) {
	e.Recompute(m.subtasksOf(e))
}

// CreateEpic stores a new epic with no subtasks and returns it.
// Status, time fields and subtask ids of the draft are ignored.
func (m *Manager) CreateEpic(draft domain.Epic) (domain.Epic, error) {
	epic := domain.Epic{Fields: domain.Fields{
		Name:        draft.Name,
		Description: draft.Description,
	}}
	epic.Recompute(nil)
	if err := m.validate(epic.Fields, 0, catEpic); err != nil {
		return domain.Epic{}, err
	}

	epic.ID = m.allocID()
	m.epics[epic.ID] = &epic
	m.logger.Info(epic.ID, catEpic, fmt.Sprintf("created %q", epic.Name))

	return epic.Clone(), m.persist()
}

// UpdateEpic replaces the name and description of an existing epic.
// Status and time are always derived from the current subtasks.
func (m *Manager) UpdateEpic(e domain.Epic) (domain.Epic, error) {
	stored, ok := m.epics[e.ID]
	if !ok {
		return domain.Epic{}, domain.ErrEpicNotFound
	}
	f := stored.Fields
	f.Name = e.Name
	f.Description = e.Description
	if err := m.validate(f, e.ID, catEpic); err != nil {
		return domain.Epic{}, err
	}

	stored.Name = e.Name
	stored.Description = e.Description
	m.recompute(stored)
	m.logger.Info(e.ID, catEpic, "updated")

	return stored.Clone(), m.persist()
}

// GetEpic returns the epic with the given id and records the view.
func (m *Manager) GetEpic(id int) (domain.Epic, error) {
	e, ok := m.epics[id]
	if !ok {
		return domain.Epic{}, domain.ErrEpicNotFound
	}
	if err := m.view(e); err != nil {
		return domain.Epic{}, err
	}
	return e.Clone(), nil
}

// Epics returns every epic ordered by id. Views are not recorded.
func (m *Manager) Epics() []domain.Epic {
	return sortedValues(m.epics, domain.Epic.Clone)
}

// EpicSubtasks returns the subtasks of an epic in the order they were added.
func (m *Manager) EpicSubtasks(epicID int) ([]domain.Subtask, error) {
	e, ok := m.epics[epicID]
	if !ok {
		return nil, domain.ErrEpicNotFound
	}
	return m.subtasksOf(e), nil
}

// DeleteEpic removes an epic together with all of its subtasks.
func (m *Manager) DeleteEpic(id int) error {
	e, ok := m.epics[id]
	if !ok {
		return domain.ErrEpicNotFound
	}
	for _, sid := range e.SubtaskIDs {
		delete(m.subtasks, sid)
		m.forget(sid)
	}
	delete(m.epics, id)
	m.forget(id)
	m.logger.Info(id, catEpic, fmt.Sprintf("deleted with %d subtasks", len(e.SubtaskIDs)))
	return m.persist()
}

// DeleteAllEpics removes every epic and every subtask.
func (m *Manager) DeleteAllEpics() error {
	for id := range m.subtasks {
		m.forget(id)
	}
	for id := range m.epics {
		m.forget(id)
	}
	n := len(m.epics)
	clear(m.subtasks)
	clear(m.epics)
	m.logger.Info(0, catEpic, fmt.Sprintf("deleted all %d epics", n))
	return m.persist()
}
