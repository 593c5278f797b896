package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil

	case MsgItemsLoaded:
		if msg.Tab != m.tab {
			// Stale result from a tab the user already left.
			return m, nil
		}
		m.items = msg.Items
		m.table.SetRows(rows(msg.Items))
		if c := m.table.Cursor(); c >= len(msg.Items) {
			m.table.SetCursor(max(len(msg.Items)-1, 0))
		}
		return m, nil

	case MsgDetailLoaded:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.detail = msg.Item
		return m, nil

	case MsgItemDeleted:
		m.err = msg.Err
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.detail != nil {
		if key.Matches(msg, m.keys.Escape, m.keys.Enter) {
			m.detail = nil
			return m, m.load()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keys.Enter):
		if it := m.Selected(); it != nil {
			return m, m.open(it)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if it := m.Selected(); it != nil {
			return m, m.remove(it)
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	m.tab = t
	m.err = nil
	m.items = nil
	m.table.SetRows(nil)
	m.table.SetCursor(0)
	return m.load()
}
