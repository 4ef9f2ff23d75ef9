package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/captainslog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateList:
		content = m.viewList()
	case constants.StateSearch:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.search.Render(m.searchInput.View()),
			m.viewList(),
		)
	case constants.StateDetail:
		content = m.detailModel.View()
	case constants.StateNew, constants.StateEdit:
		content = m.viewEntryForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateSettings:
		if m.form != nil {
			content = m.form.View()
		} else {
			content = m.settingsModel.View()
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.styles.doc.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		m.styles.header.Render(constants.DisplayName),
		"  ",
		m.styles.sub.Render(constants.MsgSubtitle),
	)
}

func (m Model) viewList() string {
	if m.loading {
		return "\n  " + m.styles.muted.Render(constants.MsgLoadingLogs)
	}
	return m.logList.View()
}

func (m Model) viewEntryForm() string {
	heading := "New log entry"
	if m.state == constants.StateEdit {
		heading = "Edit log entry"
	}
	body := m.styles.muted.Render(m.status)
	if m.form != nil {
		body = m.form.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.header.Render(heading), "", body)
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.pendingDelete != nil {
		title = m.pendingDelete.DisplayTitle()
	}
	return lipgloss.Place(m.width, m.contentHeight(),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.danger.Render(constants.MsgDeleteLogTitle),
			"",
			fmt.Sprintf(constants.MsgDeleteLogMessage, title),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusIsError:
		return m.styles.danger.Render(m.status)
	case m.form == nil && (m.state == constants.StateNew || m.state == constants.StateEdit):
		return ""
	}
	return m.styles.success.Render(m.status)
}
