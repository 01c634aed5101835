package main

import "charm.land/lipgloss/v2"

var (
	styleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	styleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	styleStatusRunning = lipgloss.NewStyle().
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	styleStatusComplete = lipgloss.NewStyle().
				Foreground(lipgloss.Color("green")).
				Bold(true)

	styleStatusFailed = lipgloss.NewStyle().
				Foreground(lipgloss.Color("red")).
				Bold(true)

	styleStatusPending = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func statusStyle(s string) lipgloss.Style {
	switch s {
	case "RUNNING":
		return styleStatusRunning
	case "COMPLETED":
		return styleStatusComplete
	case "FAILED", "CANCELLED":
		return styleStatusFailed
	default:
		return styleStatusPending
	}
}
