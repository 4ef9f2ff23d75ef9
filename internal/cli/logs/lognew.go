package logs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/dictation"
	"github.com/julianstephens/captainslog/internal/geo"
	"github.com/julianstephens/captainslog/internal/logstore"
	"github.com/julianstephens/captainslog/internal/models"
)

type NewCmd struct {
	Content  string `arg:"" optional:"" help:"Entry text."`
	Title    string `help:"Entry title. Derived from the content when empty." short:"t"`
	Location string `help:"Where the entry was written." short:"l"`
	Here     bool   `help:"Fill the location from the configured home position."`
	Dictate  bool   `help:"Append dictated text read from stdin, one utterance per line, until EOF."`
}

func (c *NewCmd) Validate() error {
	if c.Here && c.Location != "" {
		return errors.New("--here and --location cannot be used together")
	}
	return nil
}

func (c *NewCmd) Run(ctx *cli.Context) error {
	content := c.Content
	if c.Dictate {
		fmt.Fprintln(ctx.Out, "Listening... (end input with Ctrl-D)")
		spoken, err := dictation.Transcribe(ctx.Ctx(), dictation.NewLineRecognizer(ctx.In))
		if err != nil {
			return fmt.Errorf("%s: %w", constants.MsgSpeechError, err)
		}
		if strings.TrimSpace(content) == "" {
			content = spoken
		} else if spoken != "" {
			content = strings.TrimRight(content, " \t\n") + " " + spoken
		}
	}

	location := c.Location
	if c.Here {
		place, err := currentPlace(ctx)
		if err != nil {
			return err
		}
		location = place
	}

	entry, err := ctx.Store.Save(ctx.Ctx(), models.Draft{
		Title:    models.DeriveTitle(c.Title, content),
		Location: location,
		Content:  content,
	})
	if err != nil {
		if errors.Is(err, logstore.ErrEmptyContent) {
			return errors.New(constants.MsgContentRequired)
		}
		return fmt.Errorf("failed to save log entry: %w", err)
	}

	fmt.Fprintf(ctx.Out, "✓ %s\n", constants.MsgSavingSuccess)
	fmt.Fprintf(ctx.Out, "  ID:    %s\n", entry.ID)
	fmt.Fprintf(ctx.Out, "  Title: %s\n", entry.Title)
	if entry.Location != "" {
		fmt.Fprintf(ctx.Out, "  Location: %s\n", entry.Location)
	}
	return nil
}

func currentPlace(ctx *cli.Context) (string, error) {
	prefs, err := ctx.Settings.Load(ctx.Ctx())
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	if !prefs.LocationTracking {
		return "", errors.New("location tracking is disabled; enable it with 'captainslog settings --location-tracking'")
	}
	if ctx.Locator == nil {
		return "", errors.New("no home position configured; set home.latitude and home.longitude in the config file")
	}
	return geo.CurrentPlaceName(ctx.Ctx(), ctx.Locator, ctx.Geocoder)
}
