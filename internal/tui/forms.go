package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/captainslog/internal/constants"
)

func (m Model) newEntryForm(fm *EntryFormModel) *huh.Form {
	content := huh.NewText().
		Title("Entry").
		Placeholder(constants.MsgContentPlaceholder).
		Lines(8).
		Value(&fm.Content)
	if m.opts.RequireContent {
		content = content.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(constants.MsgContentRequired)
			}
			return nil
		})
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder(constants.MsgTitlePlaceholder).
				Value(&fm.Title),
			huh.NewInput().
				Title("Location").
				Placeholder(constants.MsgLocationPlaceholder).
				Value(&fm.Location),
			content,
		),
	).WithTheme(formTheme(m.prefs.ThemeMode)).WithShowHelp(true)
}

func (m Model) newSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[constants.ThemeMode]().
				Title("Theme").
				Options(
					huh.NewOption("System", constants.ThemeSystem),
					huh.NewOption("Light", constants.ThemeLight),
					huh.NewOption("Dark", constants.ThemeDark),
				).
				Value(&fm.ThemeMode),
			huh.NewConfirm().
				Title("Location tracking").
				Description("Prefill new entries with the current place").
				Value(&fm.LocationTracking),
		),
	).WithTheme(formTheme(m.prefs.ThemeMode))
}
