package logs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/models"
)

type ListCmd struct {
	Limit int `help:"Show at most this many entries (0 for all)." short:"n" default:"0"`
}

func (c *ListCmd) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must be zero or positive, got %d", c.Limit)
	}
	return nil
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.ReadAll(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("%s: %w", constants.MsgFailedToLoadLogs, err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out, constants.MsgNoLogs)
		fmt.Fprintln(ctx.Out, constants.MsgCreateFirstLog)
		return nil
	}

	total := len(entries)
	if c.Limit > 0 && c.Limit < total {
		entries = entries[:c.Limit]
	}
	fmt.Fprintf(ctx.Out, "Log entries (%d total, newest first):\n\n", total)
	printEntries(ctx.Out, entries)
	return nil
}

type ShowCmd struct {
	ID   string `arg:"" help:"ID of the entry to show."`
	JSON bool   `help:"Print the entry in its storage format."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	entry, err := findEntry(ctx, c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		fmt.Fprintln(ctx.Out, string(data))
		return nil
	}

	printEntry(ctx.Out, entry)
	return nil
}

// findEntry looks id up with a strict read so that unreadable storage is
// reported as such rather than as a missing entry.
func findEntry(ctx *cli.Context, id string) (models.LogEntry, error) {
	entries, err := ctx.Store.ReadAll(ctx.Ctx())
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("%s: %w", constants.MsgFailedToLoadLogs, err)
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.LogEntry{}, fmt.Errorf("%s: %s", constants.MsgLogNotFound, id)
}

type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Text to look for in entry content and location."`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	query := strings.TrimSpace(c.Query)
	var entries []models.LogEntry
	if query == "" {
		entries = ctx.Store.GetAll(ctx.Ctx())
	} else {
		entries = ctx.Store.Search(ctx.Ctx(), query)
	}

	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out, constants.MsgNoLogs)
		if query != "" {
			fmt.Fprintln(ctx.Out, constants.MsgTryDifferentSearch)
		}
		return nil
	}

	if query != "" {
		fmt.Fprintf(ctx.Out, "%d matching entries for %q:\n\n", len(entries), query)
	}
	printEntries(ctx.Out, entries)
	return nil
}

type CountCmd struct{}

func (c *CountCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, ctx.Store.Count(ctx.Ctx()))
	return nil
}
