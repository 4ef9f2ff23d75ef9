package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/geo"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
	prefstore "github.com/julianstephens/captainslog/internal/settings"
	"github.com/julianstephens/captainslog/internal/tui/components/detail"
	"github.com/julianstephens/captainslog/internal/tui/components/loglist"
	"github.com/julianstephens/captainslog/internal/tui/components/settings"
)

// Options wires the model to its stores. Locator and Geocoder may be nil.
type Options struct {
	Store          *logstore.Store
	Settings       *prefstore.Store
	Locator        geo.Locator
	Geocoder       geo.Geocoder
	RequireContent bool
}

type EntryFormModel struct {
	Title    string
	Location string
	Content  string
}

type SettingsFormModel struct {
	ThemeMode        constants.ThemeMode
	LocationTracking bool
}

type Model struct {
	ctx           context.Context
	opts          Options
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	styles        styles
	prefs         models.Preferences
	logList       loglist.Model
	detailModel   detail.Model
	settingsModel settings.Model
	searchInput   textinput.Model
	query         string
	form          *huh.Form
	entryForm     *EntryFormModel
	settingsForm  *SettingsFormModel
	editing       *models.LogEntry
	pendingDelete *models.LogEntry
	loading       bool
	locating      bool
	status        string
	statusIsError bool
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = constants.MsgSearchPlaceholder
	ti.Prompt = "/ "
	ti.CharLimit = 200

	prefs := models.DefaultPreferences()
	return Model{
		ctx:           ctx,
		opts:          opts,
		state:         constants.StateList,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		styles:        newStyles(prefs.ThemeMode),
		prefs:         prefs,
		logList:       loglist.New(nil, 0, 0),
		detailModel:   detail.New(0, 0),
		settingsModel: settings.New(prefs, 0, 0),
		searchInput:   ti,
		loading:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEntries(""), m.loadPreferences())
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateList:
		return []key.Binding{m.keys.New, m.keys.Open, m.keys.Edit, m.keys.Delete, m.keys.Search, m.keys.Settings, m.keys.Quit, m.keys.Help}
	case constants.StateSearch:
		return []key.Binding{m.keys.Open, m.keys.Back}
	case constants.StateDetail:
		return []key.Binding{m.keys.Edit, m.keys.Delete, m.keys.Back, m.keys.Quit}
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case constants.StateSettings:
		return []key.Binding{key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")), m.keys.Back, m.keys.Quit}
	}
	return []key.Binding{m.keys.Back}
}

func (m Model) FullHelp() [][]key.Binding {
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Back}
	actions := []key.Binding{m.keys.New, m.keys.Edit, m.keys.Delete, m.keys.Search}
	global := []key.Binding{m.keys.Settings, m.keys.Refresh, m.keys.Help, m.keys.Quit}
	return [][]key.Binding{navigation, actions, global}
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusIsError = isError
}

func (m *Model) applyPreferences(prefs models.Preferences) {
	m.prefs = prefs
	m.styles = newStyles(prefs.ThemeMode)
	m.settingsModel.SetPreferences(prefs)
}

// contentHeight is the space left for the active view below the header and
// above the help line.
func (m Model) contentHeight() int {
	return max(m.height-6, 1)
}
