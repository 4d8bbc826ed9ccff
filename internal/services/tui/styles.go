package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#E06C75")
	colorGreen  = lipgloss.Color("#98C379")
	colorYellow = lipgloss.Color("#E5C07B")
	colorBlue   = lipgloss.Color("#61AFEF")
	colorMuted  = lipgloss.Color("#636B78")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true).
			PaddingLeft(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	currentPlayerStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	eliminatedStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	privateStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
