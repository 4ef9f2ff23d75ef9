package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	name string
	err  error
}

func (s stubGeocoder) ReverseGeocode(context.Context, Coordinates) (string, error) {
	return s.name, s.err
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "51.50735, -0.12776", FormatCoordinates(Coordinates{Latitude: 51.507351, Longitude: -0.127758}))
	assert.Equal(t, "0.00000, 0.00000", FormatCoordinates(Coordinates{}))
}

func TestCurrentPlaceName(t *testing.T) {
	pos := &Coordinates{Latitude: 18.0, Longitude: -76.8}
	ctx := context.Background()

	name, err := CurrentPlaceName(ctx, StaticLocator{Position: pos}, stubGeocoder{name: "Port Royal, Jamaica"})
	require.NoError(t, err)
	assert.Equal(t, "Port Royal, Jamaica", name)

	name, err = CurrentPlaceName(ctx, StaticLocator{Position: pos}, stubGeocoder{err: errors.New("offline")})
	require.NoError(t, err)
	assert.Equal(t, "18.00000, -76.80000", name)

	name, err = CurrentPlaceName(ctx, StaticLocator{Position: pos}, stubGeocoder{})
	require.NoError(t, err)
	assert.Equal(t, "18.00000, -76.80000", name)

	name, err = CurrentPlaceName(ctx, StaticLocator{Position: pos}, nil)
	require.NoError(t, err)
	assert.Equal(t, "18.00000, -76.80000", name)

	_, err = CurrentPlaceName(ctx, StaticLocator{}, nil)
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestNominatimGeocoder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "18.5", r.URL.Query().Get("lat"))
		assert.Equal(t, "-76.25", r.URL.Query().Get("lon"))
		assert.Equal(t, "captainslog-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Kingston, Jamaica"}`))
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "captainslog-test")
	name, err := g.ReverseGeocode(context.Background(), Coordinates{Latitude: 18.5, Longitude: -76.25})
	require.NoError(t, err)
	assert.Equal(t, "Kingston, Jamaica", name)
}

func TestNominatimGeocoder_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, ``, "status"},
		{"bad json", http.StatusOK, `{not json`, "decode"},
		{"api error", http.StatusOK, `{"error":"Unable to geocode"}`, "Unable to geocode"},
		{"empty name", http.StatusOK, `{"display_name":"  "}`, "no place name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewNominatimGeocoder(server.URL, "").ReverseGeocode(context.Background(), Coordinates{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewNominatimGeocoder_Defaults(t *testing.T) {
	g := NewNominatimGeocoder("", "")
	assert.Equal(t, "https://nominatim.openstreetmap.org/reverse", g.BaseURL)
	assert.Equal(t, "captainslog/v0.3.0", g.UserAgent)
	assert.NotNil(t, g.Client)
}
