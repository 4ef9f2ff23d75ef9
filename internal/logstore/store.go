// Package logstore is the sole authority for journal entries. The whole
// collection lives as one JSON array under a single backend key and every
// mutation rewrites it. Mutations are serialized in arrival order.
package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/captainslog/internal/kv"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/models"
)

const maxIDAttempts = 3

// Store manages the entry collection in a kv.Backend.
type Store struct {
	backend        kv.Backend
	key            string
	now            func() time.Time
	newID          func() (string, error)
	requireContent bool

	lock fifoLock
}

// New returns a Store over backend. The store does not own the backend and
// never closes it.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	defaultOptions(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the backend key holding the collection.
func (s *Store) Key() string { return s.key }

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// read loads the collection. An absent key is an empty collection.
func (s *Store) read(ctx context.Context, op string) ([]models.LogEntry, error) {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, &StorageReadError{Op: op, Key: s.key, Err: err}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []models.LogEntry{}, nil
	}
	var entries []models.LogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, &StorageReadError{Op: op, Key: s.key, Err: fmt.Errorf("failed to parse collection: %w", err)}
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

func (s *Store) write(ctx context.Context, op string, entries []models.LogEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return &StorageWriteError{Op: op, Key: s.key, Err: fmt.Errorf("failed to marshal collection: %w", err)}
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return &StorageWriteError{Op: op, Key: s.key, Err: err}
	}
	return nil
}

// mutate runs fn over the current collection under the store lock and writes
// the result back when fn asks for it. Once the lock is held the operation
// runs to completion regardless of ctx.
func (s *Store) mutate(ctx context.Context, op string, fn func([]models.LogEntry) ([]models.LogEntry, bool, error)) error {
	if err := s.lock.Lock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()
	ctx = context.WithoutCancel(ctx)

	entries, err := s.read(ctx, op)
	if err != nil {
		return err
	}
	next, changed, err := fn(entries)
	if err != nil || !changed {
		return err
	}
	return s.write(ctx, op, next)
}

// Save creates a new entry from draft and prepends it to the collection.
func (s *Store) Save(ctx context.Context, draft models.Draft) (models.LogEntry, error) {
	if s.requireContent && strings.TrimSpace(draft.Content) == "" {
		return models.LogEntry{}, ErrEmptyContent
	}

	var saved models.LogEntry
	err := s.mutate(ctx, "save", func(entries []models.LogEntry) ([]models.LogEntry, bool, error) {
		id, err := s.uniqueID(entries)
		if err != nil {
			return nil, false, err
		}
		now := s.timestamp()
		saved = models.LogEntry{
			ID:        id,
			Title:     draft.Title,
			Location:  draft.Location,
			Content:   draft.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		next := make([]models.LogEntry, 0, len(entries)+1)
		next = append(next, saved)
		next = append(next, entries...)
		return next, true, nil
	})
	if err != nil {
		return models.LogEntry{}, err
	}
	logger.Debug("Saved log entry", "id", saved.ID)
	return saved, nil
}

func (s *Store) uniqueID(entries []models.LogEntry) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate id: %w", err)
		}
		if id == "" {
			continue
		}
		if indexOf(entries, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique id after %d attempts", maxIDAttempts)
}

// GetAll returns every entry, newest first. Read failures are logged and
// produce an empty result.
func (s *Store) GetAll(ctx context.Context) []models.LogEntry {
	entries, err := s.read(ctx, "get all")
	if err != nil {
		logger.Warn("Returning empty log collection", "error", err)
		return []models.LogEntry{}
	}
	return entries
}

// ReadAll is GetAll without the degradation: read and parse failures are
// returned as *StorageReadError.
func (s *Store) ReadAll(ctx context.Context) ([]models.LogEntry, error) {
	return s.read(ctx, "read all")
}

// GetByID returns the entry with the given id.
func (s *Store) GetByID(ctx context.Context, id string) (models.LogEntry, bool) {
	entries := s.GetAll(ctx)
	if i := indexOf(entries, id); i >= 0 {
		return entries[i], true
	}
	return models.LogEntry{}, false
}

// Update merges patch over the entry with the given id and stamps UpdatedAt
// with the store's clock. A patch-supplied UpdatedAt is ignored.
func (s *Store) Update(ctx context.Context, id string, patch models.Patch) (models.LogEntry, error) {
	var updated models.LogEntry
	err := s.mutate(ctx, "update", func(entries []models.LogEntry) ([]models.LogEntry, bool, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, false, &NotFoundError{ID: id}
		}
		prev := entries[i]
		updated = patch.Apply(prev)
		updated.ID = prev.ID
		updated.CreatedAt = prev.CreatedAt
		updated.UpdatedAt = s.stampAfter(prev.UpdatedAt)

		next := make([]models.LogEntry, len(entries))
		copy(next, entries)
		next[i] = updated
		return next, true, nil
	})
	if err != nil {
		return models.LogEntry{}, err
	}
	logger.Debug("Updated log entry", "id", id)
	return updated, nil
}

// stampAfter returns the current time, bumped so it is strictly after prev.
func (s *Store) stampAfter(prev time.Time) time.Time {
	now := s.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// Delete removes the entry with the given id. Deleting an absent id succeeds
// without writing.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, "delete", func(entries []models.LogEntry) ([]models.LogEntry, bool, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, false, nil
		}
		next := make([]models.LogEntry, 0, len(entries)-1)
		next = append(next, entries[:i]...)
		next = append(next, entries[i+1:]...)
		removed = true
		return next, true, nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		logger.Debug("Deleted log entry", "id", id)
	}
	return true, nil
}

// Search returns entries whose content or location contains query, ignoring
// case. Titles are not matched. Callers handle the blank query.
func (s *Store) Search(ctx context.Context, query string) []models.LogEntry {
	entries := s.GetAll(ctx)
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	matches := []models.LogEntry{}
	for _, e := range entries {
		if strings.Contains(lower.String(e.Content), needle) ||
			strings.Contains(lower.String(e.Location), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// ClearAll removes the collection key.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.lock.Lock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := s.backend.Remove(context.WithoutCancel(ctx), s.key); err != nil {
		return &StorageWriteError{Op: "clear", Key: s.key, Err: err}
	}
	logger.Debug("Cleared log collection")
	return nil
}

// Count returns the number of entries, or 0 when the collection is unreadable.
func (s *Store) Count(ctx context.Context) int {
	return len(s.GetAll(ctx))
}

// Export returns the collection in its storage format, indented. Unlike
// GetAll it fails when the collection cannot be read.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	entries, err := s.read(ctx, "export")
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collection: %w", err)
	}
	return data, nil
}

// ReplaceAll overwrites the collection with entries in the given order after
// checking ids and timestamps. The current value is never read, so it also
// replaces a collection that no longer parses. Used by backup restore.
func (s *Store) ReplaceAll(ctx context.Context, entries []models.LogEntry) error {
	if err := ValidateCollection(entries); err != nil {
		return err
	}
	next := make([]models.LogEntry, len(entries))
	copy(next, entries)

	if err := s.lock.Lock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := s.write(context.WithoutCancel(ctx), "replace", next); err != nil {
		return err
	}
	logger.Debug("Replaced log collection", "count", len(next))
	return nil
}

// Raw returns the stored collection exactly as the backend holds it.
func (s *Store) Raw(ctx context.Context) (string, bool, error) {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return "", false, &StorageReadError{Op: "raw", Key: s.key, Err: err}
	}
	return raw, found, nil
}

// ParseCollection decodes a storage-format JSON array.
func ParseCollection(data []byte) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

// ValidateCollection checks that ids are present and unique and that every
// entry has CreatedAt <= UpdatedAt.
func ValidateCollection(entries []models.LogEntry) error {
	seen := make(map[string]struct{}, len(entries))
	var errs []error
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if _, dup := seen[e.ID]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate id %s", i, e.ID))
			continue
		}
		seen[e.ID] = struct{}{}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCollection, errors.Join(errs...))
	}
	return nil
}

func indexOf(entries []models.LogEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
