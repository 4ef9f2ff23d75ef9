// Package geo produces the one-shot place name used to prefill an entry's
// location. Only the resulting text is persisted.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/logger"
)

// ErrNoPosition is returned by locators that have nothing to report.
var ErrNoPosition = errors.New("current position unavailable")

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Locator reports the device position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Geocoder resolves a position to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinates) (string, error)
}

// StaticLocator always reports the configured position.
type StaticLocator struct {
	Position *Coordinates
}

func (s StaticLocator) CurrentPosition(context.Context) (Coordinates, error) {
	if s.Position == nil {
		return Coordinates{}, ErrNoPosition
	}
	return *s.Position, nil
}

// FormatCoordinates renders c as "lat, lon" with five decimal places.
func FormatCoordinates(c Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', constants.CoordinatePrecision, 64) + ", " +
		strconv.FormatFloat(c.Longitude, 'f', constants.CoordinatePrecision, 64)
}

// CurrentPlaceName looks up the current position and names it. When naming
// fails, or geocoder is nil, the formatted coordinates are returned instead.
// Only a failure to obtain the position is an error.
func CurrentPlaceName(ctx context.Context, locator Locator, geocoder Geocoder) (string, error) {
	pos, err := locator.CurrentPosition(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current position: %w", err)
	}
	if geocoder == nil {
		return FormatCoordinates(pos), nil
	}

	name, err := geocoder.ReverseGeocode(ctx, pos)
	if err != nil || name == "" {
		logger.Warn("Reverse geocoding failed, using coordinates", "error", err)
		return FormatCoordinates(pos), nil
	}
	return name, nil
}
