package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/schedule/internal/domain"
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("schedule"))
	b.WriteString("\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	if m.detail != nil {
		b.WriteString(m.detailView(m.detail))
	} else if len(m.items) == 0 {
		b.WriteString(m.styles.Empty.Render("No items."))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return m.styles.App.Render(b.String())
}

func (m *Model) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		style := m.styles.Tab
		if t == m.tab {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) detailView(it domain.Item) string {
	f := it.Base()
	var b strings.Builder
	b.WriteString(m.styles.DetailTitle.Render(fmt.Sprintf("%s #%d  %s", it.Kind(), f.ID, f.Name)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(m.styles.DetailLabel.Render(label))
		b.WriteString(m.styles.DetailValue.Render(value))
		b.WriteString("\n")
	}
	row("Status", StatusBadge(f.Status))
	row("Start", formatTime(f.StartTime))
	row("End", formatTime(it.End()))
	row("Duration", f.Duration.String())

	switch v := it.(type) {
	case domain.Epic:
		ids := make([]string, 0, len(v.SubtaskIDs))
		for _, id := range v.SubtaskIDs {
			ids = append(ids, fmt.Sprintf("#%d", id))
		}
		row("Subtasks", strings.Join(ids, " "))
	case domain.Subtask:
		row("Epic", fmt.Sprintf("#%d", v.EpicID))
	}

	if f.Description != "" {
		b.WriteString(m.styles.DetailDesc.Render(f.Description))
		b.WriteString("\n")
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(TimeLayout)
}
