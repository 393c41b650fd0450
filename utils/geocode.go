package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hangoutspots/config"
)

// Coordinates is a geocoded position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves free-form addresses to coordinates via Nominatim.
// Every failure mode degrades to nil coordinates; callers proceed without
// GPS verification rather than failing the request.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewGeocoder builds a geocoder with a bounded request timeout.
func NewGeocoder(cfg *config.Config) *Geocoder {
	return &Geocoder{
		baseURL:   cfg.Geocoding.BaseURL,
		userAgent: cfg.Geocoding.UserAgent,
		client:    &http.Client{Timeout: time.Duration(cfg.Geocoding.TimeoutSeconds) * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GetCoordinatesFromAddress looks up an address. It returns nil on empty
// input, transport errors, non-2xx responses, zero results and unparsable
// payloads; it never returns an error to the caller.
func (g *Geocoder) GetCoordinatesFromAddress(ctx context.Context, address string) *Coordinates {
	if strings.TrimSpace(address) == "" {
		return nil
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		if Sugar != nil {
			Sugar.Warnf("geocoding request failed: %v", err)
		}
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if Sugar != nil {
			Sugar.Warnf("geocoding API error: %s", resp.Status)
		}
		return nil
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil
	}

	return &Coordinates{Latitude: lat, Longitude: lon}
}
