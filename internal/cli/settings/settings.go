package settings

import (
	"fmt"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/models"
)

type SettingsCmd struct {
	List  bool `help:"List current settings."`
	Reset bool `help:"Restore the default settings."`

	Theme            *string `help:"Colour scheme: system, light or dark."`
	LocationTracking *bool   `help:"Allow new entries to look up the current location."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.Reset {
		if err := ctx.Settings.Reset(ctx.Ctx()); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Fprintln(ctx.Out, "Settings reset to defaults.")
		return nil
	}

	prefs, err := ctx.Settings.Load(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Fprintln(ctx.Out, "Current Settings:")
		fmt.Fprintf(ctx.Out, "  Theme:             %s\n", prefs.ThemeMode)
		fmt.Fprintf(ctx.Out, "  Location Tracking: %v\n", prefs.LocationTracking)
		fmt.Fprintln(ctx.Out, "\nStorage:")
		fmt.Fprintf(ctx.Out, "  Backend:           %s\n", ctx.Config.Backend)
		fmt.Fprintf(ctx.Out, "  Location:          %s\n", ctx.Backend.Location())
		fmt.Fprintf(ctx.Out, "  Require Content:   %v\n", ctx.Config.RequireContent)
		return nil
	}

	updated := false
	if c.Theme != nil {
		mode, ok := models.ParseThemeMode(*c.Theme)
		if !ok {
			return fmt.Errorf("invalid theme %q (expected system, light or dark)", *c.Theme)
		}
		prefs.ThemeMode = mode
		updated = true
	}
	if c.LocationTracking != nil {
		prefs.LocationTracking = *c.LocationTracking
		updated = true
	}

	if updated {
		if err := ctx.Settings.Save(ctx.Ctx(), prefs); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Fprintln(ctx.Out, "Settings updated successfully.")
	} else {
		fmt.Fprintln(ctx.Out, "No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
