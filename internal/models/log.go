package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/julianstephens/captainslog/internal/constants"
)

// LogEntry is a single journal record. The JSON shape is the storage format.
type LogEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is a not-yet-persisted entry payload.
type Draft struct {
	Title    string
	Location string
	Content  string
}

// Patch is a partial field set merged over an existing entry. Nil fields are
// left untouched. UpdatedAt is accepted for symmetry with the stored shape but
// the store always replaces it with its own write time.
type Patch struct {
	Title     *string
	Location  *string
	Content   *string
	UpdatedAt *time.Time
}

// Validate checks the identity and timestamp invariants of a stored entry.
func (e LogEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("entry id is empty")
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("entry %s: createdAt is not set", e.ID)
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		return fmt.Errorf("entry %s: updatedAt %s is before createdAt %s",
			e.ID, e.UpdatedAt.Format(time.RFC3339), e.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// DisplayTitle returns the title used in list views.
func (e LogEntry) DisplayTitle() string {
	return DeriveTitle(e.Title, e.Content)
}

// Apply merges the patch over entry and returns the result. UpdatedAt is not
// touched here.
func (p Patch) Apply(entry LogEntry) LogEntry {
	if p.Title != nil {
		entry.Title = *p.Title
	}
	if p.Location != nil {
		entry.Location = *p.Location
	}
	if p.Content != nil {
		entry.Content = *p.Content
	}
	return entry
}

// IsEmpty reports whether the patch changes no user-editable field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Location == nil && p.Content == nil
}

// DeriveTitle returns the title to persist for an entry. A blank title is
// derived from the content with whitespace runs collapsed; either way the
// result is bounded to TitleMaxLength display cells.
func DeriveTitle(title, content string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		t = strings.Join(strings.Fields(content), " ")
	}
	return TruncateTitle(t)
}

// TruncateTitle cuts s to TitleMaxLength display cells and appends an ellipsis
// when anything was removed.
func TruncateTitle(s string) string {
	if runewidth.StringWidth(s) <= constants.TitleMaxLength {
		return s
	}
	return runewidth.Truncate(s, constants.TitleMaxLength, "") + constants.TitleEllipsis
}
