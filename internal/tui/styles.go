package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/captainslog/internal/constants"
)

type styles struct {
	header  lipgloss.Style
	sub     lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	search  lipgloss.Style
	doc     lipgloss.Style
}

// color picks the light or dark variant for a fixed theme and lets the
// terminal background decide for the system theme.
func color(mode constants.ThemeMode, light, dark string) lipgloss.TerminalColor {
	switch mode {
	case constants.ThemeLight:
		return lipgloss.Color(light)
	case constants.ThemeDark:
		return lipgloss.Color(dark)
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func newStyles(mode constants.ThemeMode) styles {
	accent := color(mode, "25", "205")
	return styles{
		header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		sub: lipgloss.NewStyle().
			Foreground(color(mode, "244", "240")).
			Italic(true),
		success: lipgloss.NewStyle().
			Foreground(color(mode, "28", "42")),
		danger: lipgloss.NewStyle().
			Foreground(color(mode, "160", "196")).
			Bold(true),
		warning: lipgloss.NewStyle().
			Foreground(color(mode, "130", "214")).
			Italic(true),
		muted: lipgloss.NewStyle().
			Foreground(color(mode, "244", "240")),
		search: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		doc: lipgloss.NewStyle().Padding(1, 2),
	}
}

func formTheme(mode constants.ThemeMode) *huh.Theme {
	switch mode {
	case constants.ThemeLight:
		return huh.ThemeBase()
	case constants.ThemeDark:
		return huh.ThemeDracula()
	}
	return huh.ThemeCharm()
}
