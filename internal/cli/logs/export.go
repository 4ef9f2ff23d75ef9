package logs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/captainslog/internal/cli"
	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/logstore"
)

type ExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Store.Export(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("%s: %w", constants.MsgExportFailed, err)
	}

	if c.Output == "" {
		fmt.Fprintln(ctx.Out, string(data))
		return nil
	}

	entries, err := logstore.ParseCollection(data)
	if err != nil {
		return fmt.Errorf("%s: %w", constants.MsgExportFailed, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Output), 0700); err != nil {
		return fmt.Errorf("%s: %w", constants.MsgExportFailed, err)
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("%s: %w", constants.MsgExportFailed, err)
	}

	fmt.Fprintf(ctx.Out, "✓ "+constants.MsgExportSuccess+"\n", len(entries), c.Output)
	return nil
}
