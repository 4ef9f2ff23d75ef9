package logstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/captainslog/internal/constants"
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the id source used by Save.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithKey sets the backend key holding the collection.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithRequireContent makes Save reject drafts whose content is blank.
func WithRequireContent(require bool) Option {
	return func(s *Store) {
		s.requireContent = require
	}
}

func defaultOptions(s *Store) {
	s.key = constants.LogsStorageKey
	s.now = time.Now
	s.newID = newUUIDv7
}

// newUUIDv7 ids sort by creation time.
func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
