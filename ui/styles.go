package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorBear   = lipgloss.Color("#FF6B35")
	colorGreen  = lipgloss.Color("#00B894")
	colorRed    = lipgloss.Color("#D63031")
	colorYellow = lipgloss.Color("#FDCB6E")
	colorCyan   = lipgloss.Color("#00CEC9")
	colorGray   = lipgloss.Color("#636E72")
	colorWhite  = lipgloss.Color("#DFE6E9")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBear)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				Background(lipgloss.Color("#2D3436"))

	normalRowStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBear)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)

func Success(s string) string { return successStyle.Render(s) }
func Fail(s string) string    { return failStyle.Render(s) }
func Warn(s string) string    { return warnStyle.Render(s) }
func Info(s string) string    { return infoStyle.Render(s) }
func Dim(s string) string     { return dimStyle.Render(s) }
