package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/history"
	"github.com/runoshun/schedule/internal/testutil"
)

func TestPrioritized_OrdersByStartThenID(t *testing.T) {
	m := New(nil)
	late, err := m.CreateTask(newTask("late", 300, 10))
	require.NoError(t, err)
	_, err = m.CreateTask(unscheduledTask("floating"))
	require.NoError(t, err)
	epic := mustEpic(t, m, "e")
	early := mustSubtask(t, m, epic.ID, "early", 0, 10, domain.StatusNew)
	mid, err := m.CreateTask(newTask("mid", 100, 0))
	require.NoError(t, err)
	// Zero-length window sharing a start with mid; tie broken by id.
	midSub := mustSubtask(t, m, epic.ID, "mid-sub", 100, 0, domain.StatusNew)

	got := m.Prioritized()

	assert.Equal(t, []int{early.ID, mid.ID, midSub.ID, late.ID}, itemIDs(got))
	assert.Equal(t, domain.KindSubtask, got[0].Kind())
	assert.Equal(t, domain.KindTask, got[1].Kind())
}

func TestHistory_RecencyAndDuplicates(t *testing.T) {
	m := New(nil)
	var ids []int
	for range 3 {
		created, err := m.CreateTask(unscheduledTask("t"))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	for _, id := range []int{ids[0], ids[1], ids[2], ids[1]} {
		_, err := m.GetTask(id)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{ids[0], ids[2], ids[1]}, itemIDs(m.History()))
}

func TestHistory_Capacity(t *testing.T) {
	m := New(nil)
	var ids []int
	for range 11 {
		created, err := m.CreateTask(unscheduledTask("t"))
		require.NoError(t, err)
		ids = append(ids, created.ID)
		_, err = m.GetTask(created.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, ids[1:], itemIDs(m.History()))
}

func TestHistory_FrozenAtViewTime(t *testing.T) {
	m := New(nil)
	created, err := m.CreateTask(unscheduledTask("before"))
	require.NoError(t, err)
	_, err = m.GetTask(created.ID)
	require.NoError(t, err)

	created.Name = "after"
	_, err = m.UpdateTask(created)
	require.NoError(t, err)

	h := m.History()
	require.Len(t, h, 1)
	assert.Equal(t, "before", h[0].Base().Name)
}

func TestWithHistory(t *testing.T) {
	h := history.New(2)
	m := New(nil).WithHistory(h)

	for range 3 {
		created, err := m.CreateTask(newTask("t", len(m.Tasks())*60, 30))
		require.NoError(t, err)
		_, err = m.GetTask(created.ID)
		require.NoError(t, err)
	}

	assert.Len(t, h.IDs(), 2)
	assert.Len(t, m.History(), 2)
	assert.Len(t, m.Prioritized(), 3)
}

func TestExport(t *testing.T) {
	m := New(nil)
	epic := mustEpic(t, m, "e")
	sub := mustSubtask(t, m, epic.ID, "s", 0, 30, domain.StatusDone)
	task, err := m.CreateTask(newTask("t", 60, 30))
	require.NoError(t, err)
	_, err = m.GetSubtask(sub.ID)
	require.NoError(t, err)

	snap := m.Export()

	assert.Equal(t, []domain.Task{task}, snap.Tasks)
	require.Len(t, snap.Epics, 1)
	assert.Equal(t, []int{sub.ID}, snap.Epics[0].SubtaskIDs)
	assert.Equal(t, domain.StatusDone, snap.Epics[0].Status)
	assert.Equal(t, []domain.Subtask{sub}, snap.Subtasks)
	assert.Equal(t, []int{sub.ID}, snap.History)
	assert.Equal(t, 4, snap.NextID)
}

func TestRestore_RoundTrip(t *testing.T) {
	// Setup
	src := New(nil)
	epic := mustEpic(t, src, "e")
	mustSubtask(t, src, epic.ID, "a", 0, 60, domain.StatusDone)
	mustSubtask(t, src, epic.ID, "b", 120, 30, domain.StatusNew)
	task, err := src.CreateTask(newTask("t", 60, 60))
	require.NoError(t, err)
	_, err = src.GetTask(task.ID)
	require.NoError(t, err)
	_, err = src.GetEpic(epic.ID)
	require.NoError(t, err)
	snap := src.Export()

	// Execute
	dst := New(nil)
	dst.Restore(snap)

	// Assert
	assert.Equal(t, src.Export(), dst.Export())
	assert.Equal(t, itemIDs(src.Prioritized()), itemIDs(dst.Prioritized()))
	assert.Equal(t, itemIDs(src.History()), itemIDs(dst.History()))

	next, err := dst.CreateTask(unscheduledTask("n"))
	require.NoError(t, err)
	assert.Equal(t, snap.NextID, next.ID)
}

func TestRestore_RebuildsDerivedState(t *testing.T) {
	// Setup: epic fields are stale and subtask links are missing.
	snap := &domain.Snapshot{
		Epics: []domain.Epic{{
			Fields:     domain.Fields{ID: 2, Name: "e", Status: domain.StatusDone},
			SubtaskIDs: []int{99},
		}},
		Subtasks: []domain.Subtask{
			{Fields: domain.Fields{ID: 7, Name: "late", Status: domain.StatusInProgress, StartTime: at(100), Duration: mins(10)}, EpicID: 2},
			{Fields: domain.Fields{ID: 5, Name: "early", StartTime: at(0), Duration: mins(10)}, EpicID: 2},
			{Fields: domain.Fields{ID: 9, Name: "orphan"}, EpicID: 8},
		},
		Tasks:   []domain.Task{{Fields: domain.Fields{ID: 1, Name: "t", StartTime: at(50), Duration: mins(5)}}},
		History: []int{9, 5, 404, 1},
	}
	logger := &testutil.RecordingLogger{}
	m := New(logger)

	// Execute
	m.Restore(snap)

	// Assert
	epic, err := m.GetEpic(2)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7}, epic.SubtaskIDs)
	assert.Equal(t, domain.StatusInProgress, epic.Status)
	assert.Equal(t, at(0), epic.StartTime)
	assert.Equal(t, at(110), epic.EndTime)

	_, err = m.GetSubtask(9)
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
	assert.Equal(t, 1, logger.Count("WARN"))

	subs := m.Subtasks()
	require.Len(t, subs, 2)
	assert.Equal(t, domain.StatusNew, subs[0].Status)

	assert.Equal(t, []int{5, 1, 7}, itemIDs(m.Prioritized()))
	assert.Equal(t, []int{5, 1, 2}, itemIDs(m.History()))

	next, err := m.CreateTask(unscheduledTask("n"))
	require.NoError(t, err)
	assert.Equal(t, 10, next.ID)
}

func TestRestore_ReplacesExistingBoard(t *testing.T) {
	m := New(nil)
	_, err := m.CreateTask(newTask("old", 0, 60))
	require.NoError(t, err)

	m.Restore(&domain.Snapshot{})

	assert.Empty(t, m.Tasks())
	assert.Empty(t, m.Prioritized())
	created, err := m.CreateTask(newTask("new", 0, 60))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestRestore_Nil(t *testing.T) {
	m := New(nil)
	_, err := m.CreateTask(unscheduledTask("old"))
	require.NoError(t, err)

	m.Restore(nil)

	assert.Empty(t, m.Tasks())
}

func TestWithStore_SavesAfterMutationsAndViews(t *testing.T) {
	// Setup
	store := testutil.NewMockBoardStore()
	m := New(nil).WithStore(store)

	// Execute
	task, err := m.CreateTask(unscheduledTask("t"))
	require.NoError(t, err)
	_, err = m.GetTask(task.ID)
	require.NoError(t, err)
	_, err = m.CreateTask(domain.Task{})
	require.Error(t, err)
	_ = m.Tasks()
	_ = m.Prioritized()

	// Assert
	assert.Equal(t, 2, store.SaveCount())
	assert.Equal(t, []int{task.ID}, store.Snapshot.History)
	assert.Equal(t, 2, store.Snapshot.NextID)
}

func TestWithStore_SaveFailureKeepsMutation(t *testing.T) {
	store := testutil.NewMockBoardStore()
	store.SaveErr = errors.New("disk full")
	m := New(nil).WithStore(store)

	_, err := m.CreateTask(unscheduledTask("t"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save board")
	assert.ErrorIs(t, err, store.SaveErr)
	assert.Len(t, m.Tasks(), 1)
}

func TestWithStore_SaveFailureOnRead(t *testing.T) {
	store := testutil.NewMockBoardStore()
	m := New(nil).WithStore(store)
	task, err := m.CreateTask(unscheduledTask("t"))
	require.NoError(t, err)
	store.SaveErr = errors.New("read only")

	_, err = m.GetTask(task.ID)

	assert.ErrorIs(t, err, store.SaveErr)
	assert.Len(t, m.History(), 1)
}
