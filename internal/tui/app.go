// Package tui provides an interactive board viewer.
package tui

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/schedule/internal/domain"
)

// Board is the part of the manager the viewer reads and deletes through.
type Board interface {
	Tasks() []domain.Task
	Epics() []domain.Epic
	Subtasks() []domain.Subtask
	Prioritized() []domain.Item
	History() []domain.Item
	GetTask(id int) (domain.Task, error)
	GetEpic(id int) (domain.Epic, error)
	GetSubtask(id int) (domain.Subtask, error)
	DeleteTask(id int) error
	DeleteEpic(id int) error
	DeleteSubtask(id int) error
}

// Tab selects which list the table shows.
type Tab int

const (
	TabTasks Tab = iota
	TabEpics
	TabSubtasks
	TabPrioritized
	TabHistory
	tabCount
)

// String returns the tab title.
func (t Tab) String() string {
	switch t {
	case TabTasks:
		return "Tasks"
	case TabEpics:
		return "Epics"
	case TabSubtasks:
		return "Subtasks"
	case TabPrioritized:
		return "Prioritized"
	case TabHistory:
		return "History"
	default:
		return "?"
	}
}

// TimeLayout is the start time format shown in the table.
const TimeLayout = "2006-01-02 15:04"

// Model is the main bubbletea model for the board viewer.
type Model struct {
	board  Board
	detail domain.Item
	err    error
	mu     *sync.Mutex // Serializes board access from commands
	styles Styles
	help   help.Model
	keys   KeyMap
	items  []domain.Item
	table  table.Model
	tab    Tab
	width  int
	height int
}

// New creates a viewer for board.
func New(board Board) *Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	return &Model{
		board:  board,
		mu:     &sync.Mutex{},
		styles: DefaultStyles(),
		help:   help.New(),
		keys:   DefaultKeyMap(),
		table:  t,
		tab:    TabTasks,
	}
}

// Init loads the first tab.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 12},
		{Title: "Start", Width: 16},
		{Title: "Min", Width: 5},
		{Title: "Name", Width: 32},
	}
}

func rows(items []domain.Item) []table.Row {
	out := make([]table.Row, 0, len(items))
	for _, it := range items {
		f := it.Base()
		start := ""
		if f.IsScheduled() {
			start = f.StartTime.Format(TimeLayout)
		}
		out = append(out, table.Row{
			strconv.Itoa(f.ID),
			string(it.Kind()),
			f.Status.Display(),
			start,
			strconv.FormatInt(int64(f.Duration/time.Minute), 10),
			f.Name,
		})
	}
	return out
}

func asItems[T domain.Item](src []T) []domain.Item {
	out := make([]domain.Item, 0, len(src))
	for _, v := range src {
		out = append(out, v)
	}
	return out
}

// load fetches the rows of the active tab.
func (m *Model) load() tea.Cmd {
	tab := m.tab
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		var items []domain.Item
		switch tab {
		case TabTasks:
			items = asItems(m.board.Tasks())
		case TabEpics:
			items = asItems(m.board.Epics())
		case TabSubtasks:
			items = asItems(m.board.Subtasks())
		case TabPrioritized:
			items = m.board.Prioritized()
		case TabHistory:
			items = m.board.History()
		}
		return MsgItemsLoaded{Items: items, Tab: tab}
	}
}

// open fetches an item for the detail view. Opening counts as a view.
func (m *Model) open(it domain.Item) tea.Cmd {
	id, kind := it.Base().ID, it.Kind()
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		var (
			got domain.Item
			err error
		)
		switch kind {
		case domain.KindTask:
			got, err = m.board.GetTask(id)
		case domain.KindEpic:
			got, err = m.board.GetEpic(id)
		case domain.KindSubtask:
			got, err = m.board.GetSubtask(id)
		default:
			err = fmt.Errorf("unknown item kind %q", kind)
		}
		return MsgDetailLoaded{Item: got, Err: err}
	}
}

func (m *Model) remove(it domain.Item) tea.Cmd {
	id, kind := it.Base().ID, it.Kind()
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		var err error
		switch kind {
		case domain.KindTask:
			err = m.board.DeleteTask(id)
		case domain.KindEpic:
			err = m.board.DeleteEpic(id)
		case domain.KindSubtask:
			err = m.board.DeleteSubtask(id)
		}
		return MsgItemDeleted{ID: id, Err: err}
	}
}

// Selected returns the item under the cursor, or nil.
func (m *Model) Selected() domain.Item {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i]
}
