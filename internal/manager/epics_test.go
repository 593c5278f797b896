package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/schedule/internal/domain"
)

func mustEpic(t *testing.T, m *Manager, name string) domain.Epic {
	t.Helper()
	e, err := m.CreateEpic(domain.Epic{Fields: domain.Fields{Name: name}})
	require.NoError(t, err)
	return e
}

func mustSubtask(t *testing.T, m *Manager, epicID int, name string, startMin, durMin int, status domain.Status) domain.Subtask {
	t.Helper()
	s := domain.Subtask{Fields: domain.Fields{Name: name, Status: status, Duration: mins(durMin)}, EpicID: epicID}
	if startMin >= 0 {
		s.StartTime = at(startMin)
	}
	created, err := m.CreateSubtask(s)
	require.NoError(t, err)
	return created
}

func TestCreateEpic_IgnoresDerivedFields(t *testing.T) {
	m := New(nil)

	got, err := m.CreateEpic(domain.Epic{
		Fields: domain.Fields{
			ID:        50,
			Name:      "release",
			Status:    domain.StatusDone,
			StartTime: at(0),
			Duration:  mins(30),
		},
		EndTime:    at(30),
		SubtaskIDs: []int{4, 5},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.True(t, got.StartTime.IsZero())
	assert.True(t, got.EndTime.IsZero())
	assert.Zero(t, got.Duration)
	assert.Empty(t, got.SubtaskIDs)
	assert.Empty(t, m.Prioritized())
}

func TestCreateEpic_EmptyName(t *testing.T) {
	m := New(nil)

	_, err := m.CreateEpic(domain.Epic{})

	assert.ErrorIs(t, err, domain.ErrEmptyName)
	assert.Empty(t, m.Epics())
}

func TestUpdateEpic_OnlyNameAndDescription(t *testing.T) {
	// Setup
	m := New(nil)
	epic := mustEpic(t, m, "release")
	mustSubtask(t, m, epic.ID, "s1", 0, 60, domain.StatusDone)

	// Execute
	got, err := m.UpdateEpic(domain.Epic{Fields: domain.Fields{
		ID:          epic.ID,
		Name:        "release 2",
		Description: "desc",
		Status:      domain.StatusNew,
		StartTime:   at(500),
	}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "release 2", got.Name)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, at(0), got.StartTime)
	assert.Equal(t, at(60), got.EndTime)
}

func TestUpdateEpic_NotFound(t *testing.T) {
	m := New(nil)

	_, err := m.UpdateEpic(domain.Epic{Fields: domain.Fields{ID: 4, Name: "x"}})

	assert.ErrorIs(t, err, domain.ErrEpicNotFound)
}

func TestUpdateEpic_EmptyNameKeepsStored(t *testing.T) {
	m := New(nil)
	epic := mustEpic(t, m, "release")

	_, err := m.UpdateEpic(domain.Epic{Fields: domain.Fields{ID: epic.ID}})

	assert.ErrorIs(t, err, domain.ErrEmptyName)
	stored, err := m.GetEpic(epic.ID)
	require.NoError(t, err)
	assert.Equal(t, "release", stored.Name)
}

func TestEpic_StatusFold(t *testing.T) {
	tests := []struct {
		name     string
		statuses []domain.Status
		want     domain.Status
	}{
		{name: "all new", statuses: []domain.Status{domain.StatusNew, domain.StatusNew}, want: domain.StatusNew},
		{name: "all done", statuses: []domain.Status{domain.StatusDone, domain.StatusDone}, want: domain.StatusDone},
		{name: "new and done", statuses: []domain.Status{domain.StatusNew, domain.StatusDone}, want: domain.StatusInProgress},
		{name: "all in progress", statuses: []domain.Status{domain.StatusInProgress, domain.StatusInProgress}, want: domain.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil)
			epic := mustEpic(t, m, "e")
			for _, s := range tt.statuses {
				mustSubtask(t, m, epic.ID, "s", -1, 0, s)
			}

			got, err := m.GetEpic(epic.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestEpic_TimeFold(t *testing.T) {
	// Setup
	m := New(nil)
	epic := mustEpic(t, m, "e")

	// Execute
	mustSubtask(t, m, epic.ID, "A", 0, 60, domain.StatusNew)
	mustSubtask(t, m, epic.ID, "B", 120, 30, domain.StatusNew)
	mustSubtask(t, m, epic.ID, "unscheduled", -1, 15, domain.StatusNew)

	// Assert
	got, err := m.GetEpic(epic.ID)
	require.NoError(t, err)
	assert.Equal(t, at(0), got.StartTime)
	assert.Equal(t, at(150), got.EndTime)
	assert.Equal(t, mins(105), got.Duration)
}

func TestEpicSubtasks_InsertionOrder(t *testing.T) {
	m := New(nil)
	epic := mustEpic(t, m, "e")
	other := mustEpic(t, m, "other")
	s1 := mustSubtask(t, m, epic.ID, "late", 300, 10, domain.StatusNew)
	mustSubtask(t, m, other.ID, "elsewhere", -1, 0, domain.StatusNew)
	s2 := mustSubtask(t, m, epic.ID, "early", 0, 10, domain.StatusNew)

	subs, err := m.EpicSubtasks(epic.ID)

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, s1.ID, subs[0].ID)
	assert.Equal(t, s2.ID, subs[1].ID)
}

func TestEpicSubtasks_NotFound(t *testing.T) {
	m := New(nil)

	_, err := m.EpicSubtasks(1)

	assert.ErrorIs(t, err, domain.ErrEpicNotFound)
}

func TestDeleteEpic_Cascades(t *testing.T) {
	// Setup
	m := New(nil)
	epic := mustEpic(t, m, "e")
	s1 := mustSubtask(t, m, epic.ID, "s1", 0, 30, domain.StatusNew)
	s2 := mustSubtask(t, m, epic.ID, "s2", 60, 30, domain.StatusNew)
	task, err := m.CreateTask(newTask("keep", 200, 10))
	require.NoError(t, err)
	for _, view := range []func() error{
		func() error { _, err := m.GetSubtask(s1.ID); return err },
		func() error { _, err := m.GetSubtask(s2.ID); return err },
		func() error { _, err := m.GetEpic(epic.ID); return err },
		func() error { _, err := m.GetTask(task.ID); return err },
	} {
		require.NoError(t, view())
	}

	// Execute
	err = m.DeleteEpic(epic.ID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, m.Epics())
	assert.Empty(t, m.Subtasks())
	assert.Equal(t, []int{task.ID}, itemIDs(m.Prioritized()))
	assert.Equal(t, []int{task.ID}, itemIDs(m.History()))
	assert.ErrorIs(t, m.DeleteEpic(epic.ID), domain.ErrEpicNotFound)
}

func TestDeleteAllEpics(t *testing.T) {
	m := New(nil)
	e1 := mustEpic(t, m, "e1")
	e2 := mustEpic(t, m, "e2")
	mustSubtask(t, m, e1.ID, "s1", 0, 30, domain.StatusNew)
	s2 := mustSubtask(t, m, e2.ID, "s2", 60, 30, domain.StatusNew)
	task, err := m.CreateTask(unscheduledTask("keep"))
	require.NoError(t, err)
	_, err = m.GetSubtask(s2.ID)
	require.NoError(t, err)

	require.NoError(t, m.DeleteAllEpics())

	assert.Empty(t, m.Epics())
	assert.Empty(t, m.Subtasks())
	assert.Empty(t, m.Prioritized())
	assert.Empty(t, m.History())
	assert.Equal(t, []domain.Task{task}, m.Tasks())
}

func TestEpics_ReturnsCopies(t *testing.T) {
	m := New(nil)
	epic := mustEpic(t, m, "e")
	s := mustSubtask(t, m, epic.ID, "s", -1, 0, domain.StatusNew)

	epics := m.Epics()
	epics[0].SubtaskIDs[0] = 999
	epics[0].Name = "changed"

	subs, err := m.EpicSubtasks(epic.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, s.ID, subs[0].ID)
	assert.Equal(t, "e", m.Epics()[0].Name)
}
