package system

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/instance"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	lock, err := instance.Acquire(ctx.Config.ConfigDir)
	if err != nil {
		var running *instance.RunningError
		if errors.As(err, &running) {
			return fmt.Errorf(constants.MsgInstanceRunning, running.PID)
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release lockfile", "error", err)
		}
	}()

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(ctx.Ctx(), tui.Options{
		Store:          ctx.Store,
		Settings:       ctx.Settings,
		Locator:        ctx.Locator,
		Geocoder:       ctx.Geocoder,
		RequireContent: ctx.Config.RequireContent,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Ctx()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
