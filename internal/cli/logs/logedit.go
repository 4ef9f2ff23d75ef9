package logs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
)

type EditCmd struct {
	ID       string  `arg:"" help:"ID of the entry to edit."`
	Title    *string `help:"New title. An empty title is derived from the content." short:"t"`
	Location *string `help:"New location." short:"l"`
	Content  *string `help:"New content." short:"c"`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	patch := models.Patch{
		Title:    c.Title,
		Location: c.Location,
		Content:  c.Content,
	}
	if patch.IsEmpty() {
		fmt.Fprintln(ctx.Out, "No changes specified. Use --title, --location or --content.")
		return nil
	}

	current, err := findEntry(ctx, c.ID)
	if err != nil {
		return err
	}

	if c.Content != nil && ctx.Config.RequireContent && strings.TrimSpace(*c.Content) == "" {
		return errors.New(constants.MsgContentRequired)
	}
	if c.Title != nil {
		content := current.Content
		if c.Content != nil {
			content = *c.Content
		}
		title := models.DeriveTitle(*c.Title, content)
		patch.Title = &title
	}

	updated, err := ctx.Store.Update(ctx.Ctx(), c.ID, patch)
	if err != nil {
		if errors.Is(err, logstore.ErrNotFound) {
			return fmt.Errorf("%s: %s", constants.MsgLogNotFound, c.ID)
		}
		return fmt.Errorf("%s: %w", constants.MsgFailedToUpdate, err)
	}

	fmt.Fprintf(ctx.Out, "✓ %s\n", constants.MsgSuccessUpdate)
	fmt.Fprintf(ctx.Out, "  Title:   %s\n", updated.DisplayTitle())
	fmt.Fprintf(ctx.Out, "  Updated: %s\n", formatStamp(updated.UpdatedAt))
	return nil
}
