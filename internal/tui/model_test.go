package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/geo"
	"github.com/julianstephens/captainslog/internal/kv"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
	"github.com/julianstephens/captainslog/internal/settings"
	"github.com/julianstephens/captainslog/internal/tui/components/loglist"
)

func newTestModel(t *testing.T, backend *kv.Memory, mutate ...func(*Options)) Model {
	t.Helper()
	opts := Options{
		Store:          logstore.New(backend, logstore.WithRequireContent(true)),
		Settings:       settings.New(backend),
		RequireContent: true,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m, _ := update(t, NewModel(context.Background(), opts), tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func seed(t *testing.T, m Model, drafts ...models.Draft) []models.LogEntry {
	t.Helper()
	var saved []models.LogEntry
	for _, d := range drafts {
		e, err := m.opts.Store.Save(context.Background(), d)
		require.NoError(t, err)
		saved = append(saved, e)
	}
	return saved
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

// settle runs cmd and feeds back the data messages it produces. Timer based
// commands such as cursor blinks are not executed.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = settle(t, m, c)
		}
	case entriesMsg, preferencesMsg, locatedMsg, savedMsg, deletedMsg, settingsSavedMsg,
		loglist.NewLogMsg, loglist.OpenLogMsg, loglist.EditLogMsg, loglist.DeleteLogMsg:
		m, _ = update(t, m, msg)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitLoadsEntries(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	seed(t, m, models.Draft{Title: "Dawn watch", Content: "calm seas"})

	assert.Contains(t, m.View(), constants.MsgLoadingLogs)

	m = settle(t, m, m.Init())
	assert.False(t, m.loading)
	assert.Equal(t, 1, m.logList.Len())
	assert.Contains(t, m.View(), "Dawn watch")
}

func TestModel_EmptyCollection(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, constants.MsgNoLogs)
	assert.Contains(t, view, constants.MsgCreateFirstLog)
}

func TestModel_LoadFailureShowsMessage(t *testing.T) {
	backend := kv.NewMemory()
	m := newTestModel(t, backend)
	seed(t, m, models.Draft{Content: "entry"})
	backend.SetFailures(errors.New("disk on fire"), nil, nil)

	m = settle(t, m, m.loadEntries(""))
	assert.True(t, m.statusIsError)
	assert.Equal(t, constants.MsgFailedToLoadLogs, m.status)
	assert.Equal(t, 0, m.logList.Len())
}

func TestModel_Search(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	seed(t, m,
		models.Draft{Title: "Harbour", Content: "Docked at PORT royal"},
		models.Draft{Title: "Storm", Content: "heavy weather", Location: "Cape Horn"},
	)
	m = settle(t, m, m.Init())

	m, _ = update(t, m, keyRunes("/"))
	require.Equal(t, constants.StateSearch, m.state)

	for _, r := range "port" {
		m, _ = update(t, m, keyRunes(string(r)))
	}
	assert.Equal(t, "port", m.query)
	m = settle(t, m, m.loadEntries(m.query))

	require.Equal(t, 1, m.logList.Len())
	selected, ok := m.logList.Selected()
	require.True(t, ok)
	assert.Equal(t, "Harbour", selected.Title)

	// A query that matches nothing suggests trying another one.
	m.query = "kraken"
	m = settle(t, m, m.loadEntries("kraken"))
	assert.Contains(t, m.View(), constants.MsgTryDifferentSearch)

	// Escape clears the query and reloads everything.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateList, m.state)
	assert.Empty(t, m.query)
	m = settle(t, m, cmd)
	assert.Equal(t, 2, m.logList.Len())
}

func TestModel_StaleSearchResultsIgnored(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	seed(t, m, models.Draft{Content: "alpha"}, models.Draft{Content: "beta"})
	m = settle(t, m, m.Init())

	m.query = "beta"
	m = settle(t, m, m.loadEntries("alpha"))
	assert.Equal(t, 2, m.logList.Len(), "results for an old query must not replace the list")
}

func TestModel_OpenDetail(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	seed(t, m, models.Draft{Title: "Log", Content: "The long entry body", Location: "Azores"})
	m = settle(t, m, m.Init())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)
	require.Equal(t, constants.StateDetail, m.state)

	view := m.View()
	assert.Contains(t, view, "The long entry body")
	assert.Contains(t, view, "Azores")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateList, m.state)
}

func TestModel_DeleteConfirmed(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	saved := seed(t, m, models.Draft{Title: "Doomed", Content: "x"}, models.Draft{Content: "kept"})
	m = settle(t, m, m.Init())

	m, _ = update(t, m, loglist.DeleteLogMsg{Entry: saved[0]})
	require.Equal(t, constants.StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), `"Doomed"`)

	m, cmd := update(t, m, keyRunes("y"))
	assert.Equal(t, constants.StateList, m.state)
	m = settle(t, m, cmd)

	assert.Equal(t, constants.MsgSuccessDelete, m.status)
	assert.Equal(t, 1, m.opts.Store.Count(context.Background()))
	m = settle(t, m, m.loadEntries(""))
	assert.Equal(t, 1, m.logList.Len())
}

func TestModel_DeleteCancelled(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	saved := seed(t, m, models.Draft{Content: "survivor"})
	m = settle(t, m, m.Init())

	m, _ = update(t, m, loglist.OpenLogMsg{Entry: saved[0]})
	m, _ = update(t, m, keyRunes("d"))
	require.Equal(t, constants.StateConfirmDelete, m.state)

	m, cmd := update(t, m, keyRunes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, constants.StateDetail, m.state)
	assert.Nil(t, m.pendingDelete)
	assert.Equal(t, 1, m.opts.Store.Count(context.Background()))
}

func TestModel_DeleteFailure(t *testing.T) {
	backend := kv.NewMemory()
	m := newTestModel(t, backend)
	saved := seed(t, m, models.Draft{Content: "stubborn"})
	m = settle(t, m, m.Init())
	backend.SetFailures(nil, errors.New("read-only"), nil)

	m = settle(t, m, m.deleteEntry(saved[0]))
	assert.True(t, m.statusIsError)
	assert.Equal(t, constants.MsgFailedToDeleteLog, m.status)
}

func TestModel_NewEntryWithoutTracking(t *testing.T) {
	backend := kv.NewMemory()
	m := newTestModel(t, backend)
	require.NoError(t, m.opts.Settings.SetLocationTracking(context.Background(), false))
	m = settle(t, m, m.Init())

	m, cmd := update(t, m, keyRunes("n"))
	m = settle(t, m, cmd)
	assert.Equal(t, constants.StateNew, m.state)
	assert.NotNil(t, m.form)
	assert.False(t, m.locating)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateList, m.state)
	assert.Nil(t, m.form)
}

func TestModel_NewEntryPrefillsLocation(t *testing.T) {
	m := newTestModel(t, kv.NewMemory(), func(o *Options) {
		o.Locator = geo.StaticLocator{Position: &geo.Coordinates{Latitude: 10, Longitude: 20}}
	})
	m = settle(t, m, m.Init())

	m, cmd := update(t, m, loglist.NewLogMsg{})
	require.True(t, m.locating)
	assert.Nil(t, m.form)

	m = settle(t, m, cmd)
	assert.False(t, m.locating)
	require.NotNil(t, m.form)
	assert.Equal(t, "10.00000, 20.00000", m.entryForm.Location)
}

func TestModel_SaveNewEntry(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())
	m.state = constants.StateNew

	m = settle(t, m, m.saveEntry(EntryFormModel{Content: "  Weighed anchor\nat dawn  ", Location: " Lisbon "}, nil))
	assert.Equal(t, constants.StateList, m.state)
	assert.Equal(t, constants.MsgSavingSuccess, m.status)

	all := m.opts.Store.GetAll(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, "Weighed anchor at dawn", all[0].Title)
	assert.Equal(t, "Lisbon", all[0].Location)
}

func TestModel_SaveEmptyContentKeepsForm(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())
	m, _ = update(t, m, loglist.NewLogMsg{})
	m.entryForm.Title = "Only a title"

	m = settle(t, m, m.saveEntry(*m.entryForm, nil))
	assert.Equal(t, constants.StateNew, m.state)
	assert.True(t, m.statusIsError)
	assert.Equal(t, constants.MsgContentRequired, m.status)
	require.NotNil(t, m.form)
	assert.Equal(t, "Only a title", m.entryForm.Title)
}

func TestModel_EditFromDetail(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	saved := seed(t, m, models.Draft{Title: "Old", Content: "old body"})
	m = settle(t, m, m.Init())

	m, _ = update(t, m, loglist.OpenLogMsg{Entry: saved[0]})
	m, _ = update(t, m, keyRunes("e"))
	require.Equal(t, constants.StateEdit, m.state)
	assert.Equal(t, "old body", m.entryForm.Content)

	m = settle(t, m, m.saveEntry(EntryFormModel{Title: "", Content: "new body"}, m.editing))
	assert.Equal(t, constants.StateDetail, m.state)
	assert.Equal(t, constants.MsgSuccessUpdate, m.status)
	assert.Equal(t, "new body", m.detailModel.Entry().Title)

	got, ok := m.opts.Store.GetByID(context.Background(), saved[0].ID)
	require.True(t, ok)
	assert.Equal(t, "new body", got.Content)
}

func TestModel_EditDeletedEntry(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	saved := seed(t, m, models.Draft{Content: "gone soon"})
	m = settle(t, m, m.Init())

	m, _ = update(t, m, loglist.EditLogMsg{Entry: saved[0]})
	_, err := m.opts.Store.Delete(context.Background(), saved[0].ID)
	require.NoError(t, err)

	m = settle(t, m, m.saveEntry(EntryFormModel{Content: "too late"}, m.editing))
	assert.Equal(t, constants.StateList, m.state)
	assert.Equal(t, constants.MsgLogNotFound, m.status)
	assert.Nil(t, m.form)
}

func TestModel_SettingsSaveAppliesTheme(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())

	m, _ = update(t, m, keyRunes("s"))
	require.Equal(t, constants.StateSettings, m.state)
	assert.Contains(t, m.View(), "Location tracking:")

	prefs := models.Preferences{ThemeMode: constants.ThemeDark, LocationTracking: false}
	m = settle(t, m, m.savePreferences(prefs))
	assert.Equal(t, prefs, m.prefs)
	assert.Equal(t, msgSettingsSaved, m.status)

	loaded, err := m.opts.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, prefs, loaded)
}

func TestModel_PreferencesLoadedOnInit(t *testing.T) {
	backend := kv.NewMemory()
	m := newTestModel(t, backend)
	require.NoError(t, m.opts.Settings.SetThemeMode(context.Background(), constants.ThemeLight))

	m = settle(t, m, m.Init())
	assert.Equal(t, constants.ThemeLight, m.prefs.ThemeMode)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())

	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_QuitKeyTypesInSearch(t *testing.T) {
	m := newTestModel(t, kv.NewMemory())
	m = settle(t, m, m.Init())

	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, keyRunes("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.query)
}
