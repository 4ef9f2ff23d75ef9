package loglist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/models"
)

type NewLogMsg struct{}

type OpenLogMsg struct {
	Entry models.LogEntry
}

type EditLogMsg struct {
	Entry models.LogEntry
}

type DeleteLogMsg struct {
	Entry models.LogEntry
}

type Item struct {
	Entry models.LogEntry
}

func (i Item) Title() string { return i.Entry.DisplayTitle() }

func (i Item) Description() string {
	desc := i.Entry.CreatedAt.Local().Format(constants.DateFormat + " " + constants.TimeFormat)
	if loc := strings.TrimSpace(i.Entry.Location); loc != "" {
		desc += " | " + loc
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Title }

type KeyMap struct {
	New    key.Binding
	Open   key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	empty []string
}

func New(entries []models.LogEntry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:  l,
		keys:  DefaultKeyMap(),
		empty: []string{constants.MsgNoLogs, constants.MsgCreateFirstLog},
	}
}

func toItems(entries []models.LogEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// SetEntries replaces the listed entries, keeping the given order.
func (m *Model) SetEntries(entries []models.LogEntry) {
	m.list.SetItems(toItems(entries))
}

// SetEmptyMessage sets the lines shown when there is nothing to list.
func (m *Model) SetEmptyMessage(lines ...string) {
	m.empty = lines
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Selected() (models.LogEntry, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Entry, true
	}
	return models.LogEntry{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewLogMsg{} }
		case key.Matches(msg, m.keys.Open):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return OpenLogMsg{Entry: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditLogMsg{Entry: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteLogMsg{Entry: e} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  " + strings.Join(m.empty, "\n  ")
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
