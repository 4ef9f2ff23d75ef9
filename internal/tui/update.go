package tui

import (
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/errors"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
	"github.com/julianstephens/captainslog/internal/tui/components/loglist"
	"github.com/julianstephens/captainslog/internal/tui/components/settings"
)

const (
	msgLocating      = "Getting current location..."
	msgSaving        = "Saving..."
	msgSettingsSaved = "Settings saved"
	msgSettingsError = "Failed to save settings"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := max(msg.Width-4, 1), m.contentHeight()
		m.logList.SetSize(w, h)
		m.detailModel.SetSize(w, h)
		m.settingsModel.SetSize(w, h)
		m.searchInput.Width = max(msg.Width-12, 10)
		if m.form != nil {
			m.form = m.form.WithWidth(w)
		}
		return m, nil

	case entriesMsg:
		return m.handleEntries(msg), nil
	case preferencesMsg:
		if msg.err != nil {
			logger.Warn("Failed to load preferences, using defaults", "error", msg.err)
		}
		m.applyPreferences(msg.prefs)
		return m, nil
	case locatedMsg:
		return m.handleLocated(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case deletedMsg:
		return m.handleDeleted(msg)
	case settingsSavedMsg:
		if msg.err != nil {
			m.setStatus(msgSettingsError, true)
			return m, nil
		}
		m.applyPreferences(msg.prefs)
		m.setStatus(msgSettingsSaved, false)
		return m, nil

	case loglist.NewLogMsg:
		return m.startNew()
	case loglist.OpenLogMsg:
		m.detailModel.SetEntry(msg.Entry)
		m.state = constants.StateDetail
		return m, nil
	case loglist.EditLogMsg:
		return m.startEdit(msg.Entry)
	case loglist.DeleteLogMsg:
		m.confirmDelete(msg.Entry)
		return m, nil
	case settings.EditSettingsMsg:
		m.settingsForm = &SettingsFormModel{
			ThemeMode:        m.prefs.ThemeMode,
			LocationTracking: m.prefs.LocationTracking,
		}
		m.form = m.newSettingsForm(m.settingsForm)
		return m, m.form.Init()
	}

	switch {
	case m.state == constants.StateNew || m.state == constants.StateEdit:
		return m.updateEntryForm(msg)
	case m.state == constants.StateSettings && m.form != nil:
		return m.updateSettingsForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateActive(msg)
	}
	return m.handleKey(keyMsg)
}

// updateActive forwards non-key messages, such as cursor blinks, to the
// component on screen.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case constants.StateDetail:
		m.detailModel, cmd = m.detailModel.Update(msg)
	case constants.StateList:
		m.logList, cmd = m.logList.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || (m.state != constants.StateSearch && key.Matches(msg, m.keys.Quit)) {
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateConfirmDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			entry := *m.pendingDelete
			m.pendingDelete = nil
			m.returnToList()
			return m, m.deleteEntry(entry)
		case key.Matches(msg, m.keys.Cancel):
			m.pendingDelete = nil
			m.state = m.previousState
		}
		return m, nil

	case constants.StateSearch:
		switch msg.Type {
		case tea.KeyEsc:
			m.query = ""
			m.searchInput.Reset()
			m.searchInput.Blur()
			m.state = constants.StateList
			return m, m.loadEntries("")
		case tea.KeyEnter:
			if e, ok := m.logList.Selected(); ok {
				return m, func() tea.Msg { return loglist.OpenLogMsg{Entry: e} }
			}
			return m, nil
		case tea.KeyUp, tea.KeyDown:
			m.logList, cmd = m.logList.Update(msg)
			return m, cmd
		}
		m.searchInput, cmd = m.searchInput.Update(msg)
		if value := m.searchInput.Value(); value != m.query {
			m.query = value
			return m, tea.Batch(cmd, m.loadEntries(value))
		}
		return m, cmd

	case constants.StateDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.returnToList()
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			return m.startEdit(m.detailModel.Entry())
		case key.Matches(msg, m.keys.Delete):
			m.confirmDelete(m.detailModel.Entry())
			return m, nil
		}
		m.detailModel, cmd = m.detailModel.Update(msg)
		return m, cmd

	case constants.StateSettings:
		if key.Matches(msg, m.keys.Back) {
			m.state = constants.StateList
			return m, nil
		}
		m.settingsModel, cmd = m.settingsModel.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.state = constants.StateSearch
		return m, tea.Batch(m.searchInput.Focus(), textinput.Blink)
	case key.Matches(msg, m.keys.Settings):
		m.state = constants.StateSettings
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadEntries(m.query)
	}
	m.logList, cmd = m.logList.Update(msg)
	return m, cmd
}

// returnToList goes back to the search results when a query is active and to
// the full list otherwise.
func (m *Model) returnToList() {
	if m.query != "" {
		m.state = constants.StateSearch
		return
	}
	m.state = constants.StateList
}

func (m *Model) confirmDelete(entry models.LogEntry) {
	m.pendingDelete = &entry
	m.previousState = m.state
	m.state = constants.StateConfirmDelete
}

func (m Model) handleEntries(msg entriesMsg) Model {
	if msg.query != m.query {
		return m
	}
	m.loading = false
	if msg.err != nil {
		logger.Error("Failed to load logs", "error", msg.err)
		m.setStatus(constants.MsgFailedToLoadLogs, true)
		m.logList.SetEntries(nil)
		return m
	}

	m.logList.SetEntries(msg.entries)
	if strings.TrimSpace(msg.query) != "" {
		m.logList.SetEmptyMessage(constants.MsgNoLogs, constants.MsgTryDifferentSearch)
	} else {
		m.logList.SetEmptyMessage(constants.MsgNoLogs, constants.MsgCreateFirstLog)
	}
	return m
}

func (m Model) startNew() (tea.Model, tea.Cmd) {
	m.entryForm = &EntryFormModel{}
	m.editing = nil
	m.previousState = m.state
	m.state = constants.StateNew
	m.status = ""

	if m.prefs.LocationTracking && m.opts.Locator != nil {
		m.locating = true
		m.setStatus(msgLocating, false)
		return m, m.locate()
	}

	m.form = m.newEntryForm(m.entryForm)
	return m, m.form.Init()
}

func (m Model) startEdit(entry models.LogEntry) (tea.Model, tea.Cmd) {
	m.entryForm = &EntryFormModel{
		Title:    entry.Title,
		Location: entry.Location,
		Content:  entry.Content,
	}
	m.editing = &entry
	m.previousState = m.state
	m.state = constants.StateEdit
	m.status = ""
	m.form = m.newEntryForm(m.entryForm)
	return m, m.form.Init()
}

func (m *Model) cancelForm() {
	m.form = nil
	m.entryForm = nil
	m.editing = nil
	m.locating = false
	m.status = ""
	m.state = m.previousState
}

func (m Model) handleLocated(msg locatedMsg) (tea.Model, tea.Cmd) {
	if m.state != constants.StateNew || !m.locating {
		return m, nil
	}
	m.locating = false
	m.status = ""
	if msg.err != nil {
		logger.Warn("Could not determine current location", "error", msg.err)
	} else {
		m.entryForm.Location = msg.location
	}
	m.form = m.newEntryForm(m.entryForm)
	return m, m.form.Init()
}

func (m Model) updateEntryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.cancelForm()
		return m, nil
	}
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		draft := *m.entryForm
		m.form = nil
		m.setStatus(msgSaving, false)
		return m, tea.Batch(cmd, m.saveEntry(draft, m.editing))
	case huh.StateAborted:
		m.cancelForm()
	}
	return m, cmd
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		fallback := constants.MsgSavingError
		if msg.updated {
			fallback = constants.MsgFailedToUpdate
		}
		logger.Error("Failed to save log entry", "error", msg.err)
		status := errors.UserMessage(msg.err, fallback)

		// Keep the draft on screen so it can be retried, unless the entry is gone.
		if m.entryForm != nil && !stderrors.Is(msg.err, logstore.ErrNotFound) {
			m.form = m.newEntryForm(m.entryForm)
			m.setStatus(status, true)
			return m, m.form.Init()
		}
		m.cancelForm()
		m.setStatus(status, true)
		return m, m.loadEntries(m.query)
	}

	prev := m.previousState
	m.form = nil
	m.entryForm = nil
	m.editing = nil

	if !msg.updated {
		m.query = ""
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.state = constants.StateList
		m.setStatus(constants.MsgSavingSuccess, false)
		return m, m.loadEntries("")
	}

	m.state = prev
	if prev == constants.StateDetail {
		m.detailModel.SetEntry(msg.entry)
	}
	m.setStatus(constants.MsgSuccessUpdate, false)
	return m, m.loadEntries(m.query)
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Error("Failed to delete log entry", "id", msg.entry.ID, "error", msg.err)
		m.setStatus(errors.UserMessage(msg.err, constants.MsgFailedToDeleteLog), true)
	} else {
		m.setStatus(constants.MsgSuccessDelete, false)
	}
	return m, m.loadEntries(m.query)
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		m.settingsForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		prefs := models.Preferences{
			ThemeMode:        m.settingsForm.ThemeMode,
			LocationTracking: m.settingsForm.LocationTracking,
		}
		m.form = nil
		m.settingsForm = nil
		if m.opts.Settings == nil {
			m.applyPreferences(prefs)
			return m, cmd
		}
		return m, tea.Batch(cmd, m.savePreferences(prefs))
	case huh.StateAborted:
		m.form = nil
		m.settingsForm = nil
	}
	return m, cmd
}
