package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("33")
	colorSky     = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("245")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("196")
	colorWhite   = lipgloss.Color("15")

	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)

	navStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	navActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Underline(true)

	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	badgeStyle     = lipgloss.NewStyle().Foreground(colorSky)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(colorPrimary)
	statCardStyle     = cardStyle.Padding(0, 2).MarginRight(1)

	doneTitleStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	buttonStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorPrimary).Padding(0, 2)

	fieldStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorMuted).Padding(0, 1)
	focusedFieldStyle = fieldStyle.BorderForeground(colorPrimary)

	toastStyles = map[toastKind]lipgloss.Style{
		toastSuccess: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSuccess).Padding(0, 1),
		toastInfo:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSky).Padding(0, 1),
		toastError:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1),
	}
)
