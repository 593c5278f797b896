package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newBoard(t *testing.T) *manager.Manager {
	t.Helper()
	m := manager.New(nil)
	_, err := m.CreateTask(domain.Task{Fields: domain.Fields{Name: "late", StartTime: t0.Add(2 * time.Hour), Duration: 30 * time.Minute}})
	require.NoError(t, err)
	epic, err := m.CreateEpic(domain.Epic{Fields: domain.Fields{Name: "launch", Description: "ship it"}})
	require.NoError(t, err)
	_, err = m.CreateSubtask(domain.Subtask{Fields: domain.Fields{Name: "early", StartTime: t0, Duration: time.Hour}, EpicID: epic.ID})
	require.NoError(t, err)
	return m
}

// drive runs cmd and feeds its message back into the model.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModel_InitLoadsTasks(t *testing.T) {
	m := New(newBoard(t))

	drive(t, m, m.Init())

	require.Len(t, m.items, 1)
	assert.Equal(t, "late", m.Selected().Base().Name)
	assert.Contains(t, m.View(), "late")
}

func TestModel_TabsCycle(t *testing.T) {
	tests := []struct {
		tab   Tab
		names []string
	}{
		{tab: TabEpics, names: []string{"launch"}},
		{tab: TabSubtasks, names: []string{"early"}},
		{tab: TabPrioritized, names: []string{"early", "late"}},
		{tab: TabHistory, names: nil},
		{tab: TabTasks, names: []string{"late"}},
	}

	m := New(newBoard(t))
	drive(t, m, m.Init())
	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			drive(t, m, press(m, "tab"))

			assert.Equal(t, tt.tab, m.tab)
			var names []string
			for _, it := range m.items {
				names = append(names, it.Base().Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestModel_OpenRecordsView(t *testing.T) {
	board := newBoard(t)
	m := New(board)
	drive(t, m, m.Init())

	drive(t, m, press(m, "enter"))

	require.NotNil(t, m.detail)
	assert.Equal(t, "late", m.detail.Base().Name)
	assert.Contains(t, m.View(), "TASK #1")
	require.Len(t, board.History(), 1)

	drive(t, m, press(m, "esc"))
	assert.Nil(t, m.detail)
}

func TestModel_EpicDetailShowsSubtasks(t *testing.T) {
	m := New(newBoard(t))
	drive(t, m, m.Init())
	drive(t, m, press(m, "tab"))

	drive(t, m, press(m, "enter"))

	require.NotNil(t, m.detail)
	view := m.View()
	assert.Contains(t, view, "#3")
	assert.Contains(t, view, "ship it")
}

func TestModel_DeleteEpicCascades(t *testing.T) {
	board := newBoard(t)
	m := New(board)
	drive(t, m, m.Init())
	drive(t, m, press(m, "tab"))

	drive(t, m, press(m, "d")) // delete, then reload
	drive(t, m, m.load())

	assert.Empty(t, m.items)
	assert.Empty(t, board.Subtasks())
	assert.Contains(t, m.View(), "No items.")
}

func TestModel_DetailErrorIsShown(t *testing.T) {
	m := New(newBoard(t))

	m.Update(MsgDetailLoaded{Err: domain.ErrTaskNotFound})

	assert.Nil(t, m.detail)
	assert.Contains(t, m.View(), "task not found")
}

func TestModel_StaleLoadIgnored(t *testing.T) {
	m := New(newBoard(t))
	drive(t, m, m.Init())

	m.Update(MsgItemsLoaded{Tab: TabEpics, Items: []domain.Item{domain.Epic{}}})

	require.Len(t, m.items, 1)
	assert.Equal(t, "late", m.items[0].Base().Name)
}

func TestModel_Quit(t *testing.T) {
	m := New(newBoard(t))

	cmd := press(m, "q")

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatusBadge(t *testing.T) {
	for _, s := range domain.AllStatuses() {
		assert.Contains(t, StatusBadge(s), s.Display())
	}
}
