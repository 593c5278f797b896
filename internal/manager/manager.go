// Package manager owns every task, epic and subtask on a board.
//
// The Manager is the only component that stores entities. It checks time
// conflicts through a schedule.Index, derives epic status and time from
// subtasks, and records reads in a history.Tracker. A failed operation leaves
// storage, index and history exactly as they were before the call.
//
// A Manager is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
package manager

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/history"
	"github.com/runoshun/schedule/internal/schedule"
)

// Log categories.
const (
	catTask    = "task"
	catEpic    = "epic"
	catSubtask = "subtask"
	catBoard   = "board"
)

// Manager is the authoritative store for a board.
type Manager struct {
	tasks    map[int]*domain.Task
	epics    map[int]*domain.Epic
	subtasks map[int]*domain.Subtask
	history  *history.Tracker
	index    *schedule.Index
	store    domain.BoardStore
	logger   domain.Logger
	nextID   int
}

// New creates an empty Manager with a default history and index.
// A nil logger discards log entries.
func New(logger domain.Logger) *Manager {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Manager{
		tasks:    make(map[int]*domain.Task),
		epics:    make(map[int]*domain.Epic),
		subtasks: make(map[int]*domain.Subtask),
		history:  history.New(history.DefaultLimit),
		index:    schedule.New(),
		logger:   logger,
		nextID:   1,
	}
}

// WithHistory replaces the history tracker and returns the Manager.
func (m *Manager) WithHistory(h *history.Tracker) *Manager {
	m.history = h
	return m
}

// WithStore attaches a store that receives a snapshot after every change.
func (m *Manager) WithStore(s domain.BoardStore) *Manager {
	m.store = s
	return m
}

// persist writes the current snapshot to the attached store, if any.
func (m *Manager) persist() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(m.Export()); err != nil {
		m.logger.Error(0, catBoard, fmt.Sprintf("save failed: %v", err))
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

func (m *Manager) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

// checkConflict returns ErrTimeConflict if w overlaps an indexed window
// other than excludingID.
func (m *Manager) checkConflict(w domain.Window, excludingID int, category string) error {
	other, ok := m.index.WouldConflict(w, excludingID)
	if !ok {
		return nil
	}
	m.logger.Warn(w.ID, category, fmt.Sprintf("rejected: overlaps item #%d", other))
	return domain.ErrTimeConflict
}

func (m *Manager) validate(f domain.Fields, id int, category string) error {
	if err := f.Validate(); err != nil {
		m.logger.Warn(id, category, fmt.Sprintf("rejected: %v", err))
		return err
	}
	return nil
}

// reindex replaces the index entry for it with its current window.
func (m *Manager) reindex(it domain.Item) {
	m.index.Remove(it.Base().ID)
	if w, ok := domain.WindowOf(it); ok {
		m.index.Insert(w)
	}
}

// forget drops id from the index and the history.
func (m *Manager) forget(id int) {
	m.index.Remove(id)
	m.history.Remove(id)
}

// lookup returns the stored item for id, or nil.
func (m *Manager) lookup(id int) domain.Item {
	if t, ok := m.tasks[id]; ok {
		return t
	}
	if e, ok := m.epics[id]; ok {
		return e
	}
	if s, ok := m.subtasks[id]; ok {
		return s
	}
	return nil
}

// view records a read in the history and persists it.
func (m *Manager) view(it domain.Item) error {
	m.history.Record(it)
	return m.persist()
}

func defaultStatus(s domain.Status) domain.Status {
	if s == "" {
		return domain.StatusNew
	}
	return s
}

// sortedValues returns copies of the map values ordered by id.
func sortedValues[T any](src map[int]*T, clone func(T) T) []T {
	ids := slices.Sorted(maps.Keys(src))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(*src[id]))
	}
	return out
}

func identity[T any](v T) T { return v }

// Prioritized returns every scheduled task and subtask in ascending
// (start time, id) order. Epics are never part of the ordering.
func (m *Manager) Prioritized() []domain.Item {
	windows := m.index.Ordered()
	out := make([]domain.Item, 0, len(windows))
	for _, w := range windows {
		if it := domain.Clone(m.lookup(w.ID)); it != nil {
			out = append(out, it)
		}
	}
	return out
}

// History returns the recently viewed items, oldest first.
// Entries reflect each item as it was when it was viewed.
func (m *Manager) History() []domain.Item {
	return m.history.Snapshot()
}

// Export returns the full board state. Items are ordered by id.
func (m *Manager) Export() *domain.Snapshot {
	return &domain.Snapshot{
		Tasks:    sortedValues(m.tasks, identity[domain.Task]),
		Epics:    sortedValues(m.epics, domain.Epic.Clone),
		Subtasks: sortedValues(m.subtasks, identity[domain.Subtask]),
		History:  m.history.IDs(),
		NextID:   m.nextID,
	}
}

// Restore replaces the board with a previously exported snapshot.
// Stored ids are kept and no conflict checks run. Subtasks are linked to their
// epics in ascending id order; a subtask whose epic is missing is dropped.
// The index and every epic are rebuilt, and history is replayed from the
// saved ids. The store is not written.
func (m *Manager) Restore(snap *domain.Snapshot) {
	clear(m.tasks)
	clear(m.epics)
	clear(m.subtasks)
	m.index.Clear()
	m.history.Clear()
	m.nextID = 1
	if snap == nil {
		return
	}

	maxID := 0
	for _, t := range snap.Tasks {
		t.Status = defaultStatus(t.Status)
		m.tasks[t.ID] = &t
		m.reindex(&t)
		maxID = max(maxID, t.ID)
	}
	for _, e := range snap.Epics {
		e = e.Clone()
		e.SubtaskIDs = nil
		m.epics[e.ID] = &e
		maxID = max(maxID, e.ID)
	}

	subs := slices.Clone(snap.Subtasks)
	slices.SortFunc(subs, func(a, b domain.Subtask) int { return cmp.Compare(a.ID, b.ID) })
	for _, s := range subs {
		maxID = max(maxID, s.ID)
		epic, ok := m.epics[s.EpicID]
		if !ok {
			m.logger.Warn(s.ID, catSubtask, fmt.Sprintf("dropped on load: epic #%d does not exist", s.EpicID))
			continue
		}
		s.Status = defaultStatus(s.Status)
		m.subtasks[s.ID] = &s
		epic.SubtaskIDs = append(epic.SubtaskIDs, s.ID)
		m.reindex(&s)
	}

	for _, e := range m.epics {
		m.recompute(e)
	}

	for _, id := range snap.History {
		if it := m.lookup(id); it != nil {
			m.history.Record(it)
		}
	}

	m.nextID = max(snap.NextID, maxID+1, 1)
	m.logger.Debug(0, catBoard, fmt.Sprintf("restored %d tasks, %d epics, %d subtasks",
		len(m.tasks), len(m.epics), len(m.subtasks)))
}
