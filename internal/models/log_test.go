package models

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/captainslog/internal/constants"
)

func strPtr(s string) *string { return &s }

func TestLogEntry_Validate(t *testing.T) {
	created := time.Date(2025, 4, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entry   LogEntry
		wantErr bool
	}{
		{
			name:    "valid entry",
			entry:   LogEntry{ID: "a", Content: "Smooth sailing", CreatedAt: created, UpdatedAt: created},
			wantErr: false,
		},
		{
			name:    "updated after created",
			entry:   LogEntry{ID: "a", CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
			wantErr: false,
		},
		{
			name:    "empty id",
			entry:   LogEntry{ID: "  ", CreatedAt: created, UpdatedAt: created},
			wantErr: true,
		},
		{
			name:    "missing createdAt",
			entry:   LogEntry{ID: "a"},
			wantErr: true,
		},
		{
			name:    "updated before created",
			entry:   LogEntry{ID: "a", CreatedAt: created, UpdatedAt: created.Add(-time.Second)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	base := LogEntry{ID: "1", Title: "T", Location: "L", Content: "C"}

	got := Patch{Content: strPtr("C2")}.Apply(base)
	if got.Title != "T" || got.Location != "L" || got.Content != "C2" {
		t.Errorf("Apply() = %+v, want title T, location L, content C2", got)
	}
	if got.ID != "1" {
		t.Errorf("Apply() changed id to %q", got.ID)
	}

	cleared := Patch{Location: strPtr("")}.Apply(base)
	if cleared.Location != "" {
		t.Errorf("Apply() with empty location = %q, want empty", cleared.Location)
	}
	if base.Location != "L" {
		t.Error("Apply() mutated its argument")
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	now := time.Now()
	if !(Patch{}).IsEmpty() {
		t.Error("zero Patch should be empty")
	}
	if !(Patch{UpdatedAt: &now}).IsEmpty() {
		t.Error("Patch with only UpdatedAt should be empty")
	}
	if (Patch{Title: strPtr("x")}).IsEmpty() {
		t.Error("Patch with title should not be empty")
	}
}

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("a", constants.TitleMaxLength+10)

	tests := []struct {
		name    string
		title   string
		content string
		want    string
	}{
		{"explicit title kept", "Engine Maintenance", "Performed routine check", "Engine Maintenance"},
		{"title trimmed", "  Storm  ", "", "Storm"},
		{"derived from content", "", "Smooth sailing today", "Smooth sailing today"},
		{"whitespace collapsed", "", "Smooth\n\nsailing\ttoday", "Smooth sailing today"},
		{"long content truncated", "", long, strings.Repeat("a", constants.TitleMaxLength) + constants.TitleEllipsis},
		{"long title truncated", long, "short", strings.Repeat("a", constants.TitleMaxLength) + constants.TitleEllipsis},
		{"exact width kept", strings.Repeat("b", constants.TitleMaxLength), "", strings.Repeat("b", constants.TitleMaxLength)},
		{"both empty", "", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.title, tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q, %q) = %q, want %q", tt.title, tt.content, got, tt.want)
			}
		})
	}
}

func TestTruncateTitle_WideRunes(t *testing.T) {
	// Each CJK rune occupies two cells.
	s := strings.Repeat("航", constants.TitleMaxLength)
	got := TruncateTitle(s)
	want := strings.Repeat("航", constants.TitleMaxLength/2) + constants.TitleEllipsis
	if got != want {
		t.Errorf("TruncateTitle() = %q, want %q", got, want)
	}
}

func TestParseThemeMode(t *testing.T) {
	for _, s := range []string{"system", "light", "dark"} {
		if _, ok := ParseThemeMode(s); !ok {
			t.Errorf("ParseThemeMode(%q) rejected a valid mode", s)
		}
	}
	if _, ok := ParseThemeMode("sepia"); ok {
		t.Error("ParseThemeMode(\"sepia\") accepted an invalid mode")
	}
}
