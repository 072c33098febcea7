package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	helpStyle = lipgloss.NewStyle().Faint(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)

	labelStyle = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("243"))

	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("212")).Bold(true)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2)

	alertTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	calendarDayStyle = lipgloss.NewStyle().Width(3).Align(lipgloss.Right)

	calendarPickStyle = calendarDayStyle.Reverse(true)
)
