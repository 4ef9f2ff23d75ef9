// Package settings persists user preferences in the same backend as the log
// collection, one key per preference.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/kv"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/models"
)

type Store struct {
	backend kv.Backend
}

func New(backend kv.Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the saved preferences. Missing or unreadable values fall back
// to their defaults.
func (s *Store) Load(ctx context.Context) (models.Preferences, error) {
	prefs := models.DefaultPreferences()

	raw, found, err := s.backend.Get(ctx, constants.ThemeModeKey)
	if err != nil {
		return prefs, fmt.Errorf("failed to read theme mode: %w", err)
	}
	if found {
		if mode, ok := models.ParseThemeMode(raw); ok {
			prefs.ThemeMode = mode
		} else {
			logger.Warn("Ignoring unknown theme mode", "value", raw)
		}
	}

	raw, found, err = s.backend.Get(ctx, constants.LocationTrackingKey)
	if err != nil {
		return prefs, fmt.Errorf("failed to read location tracking: %w", err)
	}
	if found {
		if enabled, perr := strconv.ParseBool(raw); perr == nil {
			prefs.LocationTracking = enabled
		} else {
			logger.Warn("Ignoring invalid location tracking value", "value", raw)
		}
	}

	return prefs, nil
}

// Save writes every preference.
func (s *Store) Save(ctx context.Context, prefs models.Preferences) error {
	if err := s.SetThemeMode(ctx, prefs.ThemeMode); err != nil {
		return err
	}
	return s.SetLocationTracking(ctx, prefs.LocationTracking)
}

func (s *Store) SetThemeMode(ctx context.Context, mode constants.ThemeMode) error {
	if _, ok := models.ParseThemeMode(string(mode)); !ok {
		return fmt.Errorf("invalid theme mode %q (expected system, light or dark)", mode)
	}
	if err := s.backend.Set(ctx, constants.ThemeModeKey, string(mode)); err != nil {
		return fmt.Errorf("failed to save theme mode: %w", err)
	}
	return nil
}

func (s *Store) SetLocationTracking(ctx context.Context, enabled bool) error {
	if err := s.backend.Set(ctx, constants.LocationTrackingKey, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to save location tracking: %w", err)
	}
	return nil
}

// Reset removes every saved preference.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{constants.ThemeModeKey, constants.LocationTrackingKey} {
		if err := s.backend.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to reset %s: %w", key, err)
		}
	}
	return nil
}
