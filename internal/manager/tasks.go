package manager

import (
	"fmt"

	"github.com/runoshun/schedule/internal/domain"
)

// CreateTask stores a new task and returns it with its assigned id.
// The draft's id is ignored. An empty status becomes NEW.
func (m *Manager) CreateTask(draft domain.Task) (domain.Task, error) {
	draft.ID = 0
	draft.Status = defaultStatus(draft.Status)
	if err := m.validate(draft.Fields, 0, catTask); err != nil {
		return domain.Task{}, err
	}
	if w, ok := domain.WindowOf(draft); ok {
		if err := m.checkConflict(w, 0, catTask); err != nil {
			return domain.Task{}, err
		}
	}

	draft.ID = m.allocID()
	task := draft
	m.tasks[task.ID] = &task
	m.reindex(&task)
	m.logger.Info(task.ID, catTask, fmt.Sprintf("created %q", task.Name))

	return task, m.persist()
}

// UpdateTask replaces the mutable fields of an existing task.
// An empty status keeps the stored one. On conflict nothing changes.
func (m *Manager) UpdateTask(t domain.Task) (domain.Task, error) {
	stored, ok := m.tasks[t.ID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if t.Status == "" {
		t.Status = stored.Status
	}
	if err := m.validate(t.Fields, t.ID, catTask); err != nil {
		return domain.Task{}, err
	}
	if w, ok := domain.WindowOf(t); ok {
		if err := m.checkConflict(w, t.ID, catTask); err != nil {
			return domain.Task{}, err
		}
	}

	*stored = t
	m.reindex(stored)
	m.logger.Info(t.ID, catTask, "updated")

	return *stored, m.persist()
}

// GetTask returns the task with the given id and records the view.
func (m *Manager) GetTask(id int) (domain.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err := m.view(t); err != nil {
		return domain.Task{}, err
	}
	return *t, nil
}

// Tasks returns every task ordered by id. Views are not recorded.
func (m *Manager) Tasks() []domain.Task {
	return sortedValues(m.tasks, identity[domain.Task])
}

// DeleteTask removes a task from storage, the index and the history.
func (m *Manager) DeleteTask(id int) error {
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	m.forget(id)
	m.logger.Info(id, catTask, "deleted")
	return m.persist()
}

// DeleteAllTasks removes every task.
func (m *Manager) DeleteAllTasks() error {
	for id := range m.tasks {
		m.forget(id)
	}
	n := len(m.tasks)
	clear(m.tasks)
	m.logger.Info(0, catTask, fmt.Sprintf("deleted all %d tasks", n))
	return m.persist()
}
