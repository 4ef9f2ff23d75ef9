package logs

import (
	"fmt"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
)

type DeleteCmd struct {
	ID  string `arg:"" help:"ID of the entry to delete."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	entry, err := findEntry(ctx, c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Fprintln(ctx.Out, constants.MsgDeleteLogTitle)
		confirmed, err := ctx.Confirm(fmt.Sprintf(constants.MsgDeleteLogMessage, entry.DisplayTitle()))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Delete cancelled.")
			return nil
		}
	}

	if _, err := ctx.Store.Delete(ctx.Ctx(), c.ID); err != nil {
		return fmt.Errorf("%s: %w", constants.MsgFailedToDeleteLog, err)
	}
	fmt.Fprintf(ctx.Out, "✓ %s\n", constants.MsgSuccessDelete)
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.ReadAll(ctx.Ctx())
	if err != nil {
		return c.clearUnreadable(ctx, err)
	}

	count := len(entries)
	if count == 0 {
		fmt.Fprintln(ctx.Out, constants.MsgNoLogs)
		return nil
	}

	if !c.Yes {
		fmt.Fprintln(ctx.Out, "⚠️  WARNING: This removes every log entry.")
		fmt.Fprintln(ctx.Out, "Run 'captainslog backup create' first if you may want them back.")
		confirmed, err := ctx.Confirm(fmt.Sprintf(constants.MsgClearAllMessage, count))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Clear cancelled.")
			return nil
		}
	}

	if err := ctx.Store.ClearAll(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Deleted %d log entries\n", count)
	return nil
}

// clearUnreadable offers to remove a collection that cannot be parsed.
func (c *ClearCmd) clearUnreadable(ctx *cli.Context, readErr error) error {
	fmt.Fprintf(ctx.Out, "⚠️  WARNING: The stored log collection cannot be read: %v\n", readErr)
	fmt.Fprintln(ctx.Out, "Run 'captainslog debug dump' to see it, or 'captainslog backup restore' to replace it.")

	if !c.Yes {
		confirmed, err := ctx.Confirm(constants.MsgClearUnreadableMessage)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Clear cancelled.")
			return nil
		}
	}

	if err := ctx.Store.ClearAll(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ Removed the unreadable log collection")
	return nil
}
