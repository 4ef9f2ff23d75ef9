// Package detail renders a single log entry in a scrollable viewport.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/models"
)

const headerHeight = 5

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "240"})
)

type Model struct {
	viewport viewport.Model
	entry    models.LogEntry
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, max(height-headerHeight, 1))}
}

func (m *Model) SetEntry(entry models.LogEntry) {
	m.entry = entry
	m.viewport.SetContent(entry.Content)
	m.viewport.GotoTop()
}

func (m Model) Entry() models.LogEntry {
	return m.entry
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight, 1)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	stamp := constants.DateFormat + " " + constants.TimeFormat
	meta := []string{"Created: " + m.entry.CreatedAt.Local().Format(stamp)}
	if !m.entry.UpdatedAt.Equal(m.entry.CreatedAt) {
		meta = append(meta, "Updated: "+m.entry.UpdatedAt.Local().Format(stamp))
	}
	if loc := strings.TrimSpace(m.entry.Location); loc != "" {
		meta = append(meta, "Location: "+loc)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.entry.DisplayTitle()),
		metaStyle.Render(strings.Join(meta, "  ")),
	)
	footer := metaStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.viewport.View(), footer)
}
