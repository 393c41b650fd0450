package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Place is a business candidate resolved from the places provider.
type Place struct {
	PlaceID     int64    `json:"place_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Category    string   `json:"category,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Website     string   `json:"website,omitempty"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Types       []string `json:"types,omitempty"`
}

// categoryNames maps provider place types onto the category labels reviews
// are filed under. Types missing here fall back to a title-cased form.
var categoryNames = map[string]string{
	"restaurant":       "Restaurant",
	"cafe":             "Cafe",
	"bar":              "Bar",
	"pub":              "Bar",
	"nightclub":        "Nightclub",
	"fast_food":        "Takeaway",
	"bakery":           "Bakery",
	"hotel":            "Hotel",
	"hostel":           "Hostel",
	"guest_house":      "Bed & Breakfast",
	"mall":             "Shopping Mall",
	"supermarket":      "Supermarket",
	"clothes":          "Fashion",
	"books":            "Bookstore",
	"cinema":           "Cinema",
	"theatre":          "Theater",
	"museum":           "Museum",
	"gallery":          "Arts & Crafts",
	"zoo":              "Zoo",
	"aquarium":         "Aquarium",
	"stadium":          "Stadium",
	"park":             "Park",
	"gym":              "Gym",
	"fitness_centre":   "Gym",
	"spa":              "Spa",
	"hairdresser":      "Hair Salon",
	"beauty":           "Beauty Salon",
	"bank":             "Bank",
	"atm":              "ATM",
	"hospital":         "Hospital",
	"pharmacy":         "Pharmacy",
	"fuel":             "Gas Station",
	"car_rental":       "Car Rental",
	"parking":          "Parking",
	"school":           "School",
	"university":       "University",
	"library":          "Library",
	"place_of_worship": "Place of Worship",
	"attraction":       "Tourist Attraction",
}

// CategoryForType resolves a provider place type to a display category.
func CategoryForType(placeType string) string {
	if placeType == "" {
		return ""
	}
	if name, ok := categoryNames[placeType]; ok {
		return name
	}
	words := strings.Split(placeType, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	ExtraTags   struct {
		Phone   string `json:"phone"`
		Website string `json:"website"`
	} `json:"extratags"`
}

// SearchPlaces runs a free-text lookup against the places provider. An
// empty query returns no results without a network call.
func (g *Geocoder) SearchPlaces(ctx context.Context, query string) ([]Place, error) {
	if strings.TrimSpace(query) == "" {
		return []Place{}, nil
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "10")
	q.Set("extratags", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places search: %s", resp.Status)
	}

	var raw []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		places = append(places, r.toPlace())
	}
	return places, nil
}

type nominatimDetails struct {
	PlaceID   int64  `json:"place_id"`
	Category  string `json:"category"`
	Type      string `json:"type"`
	LocalName string `json:"localname"`
	ExtraTags struct {
		Phone   string `json:"phone"`
		Website string `json:"website"`
	} `json:"extratags"`
	Centroid struct {
		Coordinates []float64 `json:"coordinates"` // lon, lat
	} `json:"centroid"`
	Address []struct {
		LocalName string `json:"localname"`
		IsAddress bool   `json:"isaddress"`
	} `json:"address"`
}

// PlaceDetails fetches one place by provider id. It returns (nil, nil) when
// the provider does not know the id.
func (g *Geocoder) PlaceDetails(ctx context.Context, placeID int64) (*Place, error) {
	q := url.Values{}
	q.Set("place_id", strconv.FormatInt(placeID, 10))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	detailsURL := strings.TrimSuffix(g.baseURL, "/search") + "/details"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details: %s", resp.Status)
	}

	var raw nominatimDetails
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	p := Place{
		PlaceID:  raw.PlaceID,
		Name:     raw.LocalName,
		Category: CategoryForType(raw.Type),
		Contact:  raw.ExtraTags.Phone,
		Website:  raw.ExtraTags.Website,
		Types:    []string{raw.Category, raw.Type},
	}
	parts := make([]string, 0, len(raw.Address))
	for _, a := range raw.Address {
		if a.IsAddress && a.LocalName != "" && (len(parts) == 0 || parts[len(parts)-1] != a.LocalName) {
			parts = append(parts, a.LocalName)
		}
	}
	p.Address = strings.Join(parts, ", ")
	p.Description = p.Address
	if len(raw.Centroid.Coordinates) == 2 {
		lon, lat := raw.Centroid.Coordinates[0], raw.Centroid.Coordinates[1]
		p.Latitude = &lat
		p.Longitude = &lon
	}
	return &p, nil
}

func (r nominatimPlace) toPlace() Place {
	name := r.Name
	if name == "" {
		// display_name leads with the place's own name.
		name = strings.TrimSpace(strings.SplitN(r.DisplayName, ",", 2)[0])
	}
	p := Place{
		PlaceID:     r.PlaceID,
		Name:        name,
		Description: r.DisplayName,
		Address:     r.DisplayName,
		Category:    CategoryForType(r.Type),
		Contact:     r.ExtraTags.Phone,
		Website:     r.ExtraTags.Website,
		Types:       []string{r.Class, r.Type},
	}
	if lat, err := strconv.ParseFloat(r.Lat, 64); err == nil {
		if lon, err := strconv.ParseFloat(r.Lon, 64); err == nil {
			p.Latitude = &lat
			p.Longitude = &lon
		}
	}
	return p
}
