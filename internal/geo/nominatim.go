package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julianstephens/captainslog/internal/constants"
)

// NominatimGeocoder performs reverse lookups against a Nominatim-compatible
// HTTP endpoint.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = constants.DefaultGeocoderURL
	}
	if userAgent == "" {
		userAgent = constants.AppName + "/" + constants.Version
	}
	return &NominatimGeocoder{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: constants.GeocoderTimeout},
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *NominatimGeocoder) ReverseGeocode(ctx context.Context, c Coordinates) (string, error) {
	u, err := url.Parse(n.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.UserAgent)

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode failed with status: %s", resp.Status)
	}

	var body nominatimResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("reverse geocode failed: %s", body.Error)
	}
	name := strings.TrimSpace(body.DisplayName)
	if name == "" {
		return "", fmt.Errorf("reverse geocode returned no place name")
	}
	return name, nil
}
