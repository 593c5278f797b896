package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/schedule/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	TitleLight lipgloss.Color

	// Status colors
	New        lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	TitleLight: lipgloss.Color("#DFE6E9"), // Light gray

	New:        lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	App lipgloss.Style

	// Header and tabs
	Header    lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Detail view
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
	DetailDesc  lipgloss.Style

	ErrorMsg lipgloss.Style
	Empty    lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		Tab: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleLight).
			Background(Colors.Primary).
			Padding(0, 1),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleLight).
			MarginBottom(1),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		DetailValue: lipgloss.NewStyle().
			Foreground(Colors.TitleLight),

		DetailDesc: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			MarginTop(1),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),
	}
}

// StatusStyle returns the badge style for a status.
func StatusStyle(s domain.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case domain.StatusNew:
		return base.Foreground(Colors.New)
	case domain.StatusInProgress:
		return base.Foreground(Colors.InProgress)
	case domain.StatusDone:
		return base.Foreground(Colors.Done)
	default:
		return base.Foreground(Colors.Muted)
	}
}

// StatusBadge renders a status with its color.
func StatusBadge(s domain.Status) string {
	return StatusStyle(s).Render(s.Display())
}
