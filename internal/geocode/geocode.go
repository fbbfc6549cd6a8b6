package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Result holds the fields consumed from a reverse-geocoding response.
type Result struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// Geocoder converts coordinates to place details.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Result, error)
}

const defaultBaseURL = "https://us1.locationiq.com/v1"

// HTTPDoer defines the http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// LocationIQ calls the LocationIQ reverse endpoint.
type LocationIQ struct {
	baseURL string
	key     string
	client  HTTPDoer
}

// NewLocationIQ returns a client for the given API key. An empty baseURL
// falls back to the public endpoint.
func NewLocationIQ(baseURL, key string, client HTTPDoer) *LocationIQ {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &LocationIQ{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  client,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Reverse resolves coordinates into a display name.
func (c *LocationIQ) Reverse(ctx context.Context, lat, lon float64) (Result, error) {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	endpoint := c.baseURL + "/reverse.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode: reverse lookup returned status %d", resp.StatusCode)
	}

	var payload reverseResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if payload.DisplayName == "" {
		return Result{}, errors.New("geocode: empty display name")
	}

	result := Result{DisplayName: payload.DisplayName, Latitude: lat, Longitude: lon}
	if v, err := strconv.ParseFloat(payload.Lat, 64); err == nil {
		result.Latitude = v
	}
	if v, err := strconv.ParseFloat(payload.Lon, 64); err == nil {
		result.Longitude = v
	}
	return result, nil
}

// PlaceName derives a short human-readable name from a display name by
// keeping tokens [len-4, len-1) of the space-separated address.
func PlaceName(displayName string) string {
	tokens := strings.Fields(displayName)
	if len(tokens) < 4 {
		if len(tokens) <= 1 {
			return displayName
		}
		return strings.Join(tokens[:len(tokens)-1], " ")
	}
	return strings.Join(tokens[len(tokens)-4:len(tokens)-1], " ")
}
