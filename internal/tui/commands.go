package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/captainslog/internal/geo"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/models"
)

type entriesMsg struct {
	entries []models.LogEntry
	query   string
	err     error
}

type preferencesMsg struct {
	prefs models.Preferences
	err   error
}

type locatedMsg struct {
	location string
	err      error
}

type savedMsg struct {
	entry   models.LogEntry
	updated bool
	err     error
}

type deletedMsg struct {
	entry models.LogEntry
	err   error
}

type settingsSavedMsg struct {
	prefs models.Preferences
	err   error
}

// loadEntries fetches the list for query. A blank query lists everything.
func (m Model) loadEntries(query string) tea.Cmd {
	ctx, store := m.ctx, m.opts.Store
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			entries, err := store.ReadAll(ctx)
			return entriesMsg{entries: entries, query: query, err: err}
		}
		return entriesMsg{entries: store.Search(ctx, query), query: query}
	}
}

func (m Model) loadPreferences() tea.Cmd {
	if m.opts.Settings == nil {
		return nil
	}
	ctx, prefs := m.ctx, m.opts.Settings
	return func() tea.Msg {
		p, err := prefs.Load(ctx)
		return preferencesMsg{prefs: p, err: err}
	}
}

func (m Model) locate() tea.Cmd {
	ctx, locator, geocoder := m.ctx, m.opts.Locator, m.opts.Geocoder
	return func() tea.Msg {
		name, err := geo.CurrentPlaceName(ctx, locator, geocoder)
		return locatedMsg{location: name, err: err}
	}
}

func (m Model) saveEntry(form EntryFormModel, editing *models.LogEntry) tea.Cmd {
	ctx, store := m.ctx, m.opts.Store
	return func() tea.Msg {
		title := models.DeriveTitle(form.Title, form.Content)
		location := strings.TrimSpace(form.Location)

		if editing == nil {
			entry, err := store.Save(ctx, models.Draft{Title: title, Location: location, Content: form.Content})
			return savedMsg{entry: entry, err: err}
		}

		entry, err := store.Update(ctx, editing.ID, models.Patch{
			Title:    &title,
			Location: &location,
			Content:  &form.Content,
		})
		return savedMsg{entry: entry, updated: true, err: err}
	}
}

func (m Model) deleteEntry(entry models.LogEntry) tea.Cmd {
	ctx, store := m.ctx, m.opts.Store
	return func() tea.Msg {
		_, err := store.Delete(ctx, entry.ID)
		return deletedMsg{entry: entry, err: err}
	}
}

func (m Model) savePreferences(prefs models.Preferences) tea.Cmd {
	ctx, store := m.ctx, m.opts.Settings
	return func() tea.Msg {
		if err := store.Save(ctx, prefs); err != nil {
			logger.Error("Failed to save preferences", "error", err)
			return settingsSavedMsg{prefs: prefs, err: err}
		}
		return settingsSavedMsg{prefs: prefs}
	}
}
