package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/captainslog/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	prefs  models.Preferences
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "205"}).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "240"}).
			Width(20)

	valueStyle = lipgloss.NewStyle().Bold(true)
)

func New(prefs models.Preferences, width, height int) Model {
	return Model{prefs: prefs, width: width, height: height}
}

func (m *Model) SetPreferences(prefs models.Preferences) {
	m.prefs = prefs
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "e" {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	tracking := "off"
	if m.prefs.LocationTracking {
		tracking = "on"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Preferences"),
		fmt.Sprintf("%s %s", labelStyle.Render("Theme:"), valueStyle.Render(string(m.prefs.ThemeMode))),
		fmt.Sprintf("%s %s", labelStyle.Render("Location tracking:"), valueStyle.Render(tracking)),
		"",
		lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "240"}).
			Italic(true).
			Render("Press 'e' to edit settings"),
	)

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
