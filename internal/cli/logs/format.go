package logs

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/models"
)

const stampFormat = constants.DateFormat + " " + constants.TimeFormat

// formatStamp renders t in the local zone for list output.
func formatStamp(t time.Time) string {
	return t.Local().Format(stampFormat)
}

// printEntries writes one line per entry: id, creation time, title and
// location when set.
func printEntries(w io.Writer, entries []models.LogEntry) {
	for _, e := range entries {
		line := fmt.Sprintf("  %s  %s  %s", e.ID, formatStamp(e.CreatedAt), e.DisplayTitle())
		if loc := strings.TrimSpace(e.Location); loc != "" {
			line += fmt.Sprintf("  (%s)", loc)
		}
		fmt.Fprintln(w, line)
	}
}

func printEntry(w io.Writer, e models.LogEntry) {
	fmt.Fprintf(w, "Title:    %s\n", e.DisplayTitle())
	fmt.Fprintf(w, "ID:       %s\n", e.ID)
	if e.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", e.Location)
	}
	fmt.Fprintf(w, "Created:  %s\n", formatStamp(e.CreatedAt))
	if !e.UpdatedAt.Equal(e.CreatedAt) {
		fmt.Fprintf(w, "Updated:  %s\n", formatStamp(e.UpdatedAt))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, e.Content)
}
