package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCategoryForType(t *testing.T) {
	cases := []struct {
		placeType string
		want      string
	}{
		{"restaurant", "Restaurant"},
		{"fast_food", "Takeaway"},
		{"fitness_centre", "Gym"},
		{"car_repair", "Car Repair"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CategoryForType(tc.placeType); got != tc.want {
			t.Errorf("CategoryForType(%q) = %q, want %q", tc.placeType, got, tc.want)
		}
	}
}

func TestSearchPlacesEmptyQuery(t *testing.T) {
	g := newTestGeocoder("http://127.0.0.1:0")
	places, err := g.SearchPlaces(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchPlaces error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected no results for blank query, got %d", len(places))
	}
}

func TestSearchPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "cafe kampala" {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(`[
			{"place_id":42,"name":"Cafe Pap","display_name":"Cafe Pap, Parliament Avenue, Kampala","class":"amenity","type":"cafe","lat":"0.3136","lon":"32.5811","extratags":{"phone":"+256 414 000000"}},
			{"place_id":43,"display_name":"Nameless Spot, Jinja Road, Kampala","class":"amenity","type":"fast_food","lat":"bad","lon":"32.6"}
		]`))
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL)
	places, err := g.SearchPlaces(context.Background(), "cafe kampala")
	if err != nil {
		t.Fatalf("SearchPlaces error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}

	first := places[0]
	if first.PlaceID != 42 || first.Name != "Cafe Pap" {
		t.Errorf("first place = %+v", first)
	}
	if first.Category != "Cafe" {
		t.Errorf("category = %q, want Cafe", first.Category)
	}
	if first.Contact != "+256 414 000000" {
		t.Errorf("contact = %q", first.Contact)
	}
	if first.Latitude == nil || *first.Latitude != 0.3136 {
		t.Errorf("latitude = %v", first.Latitude)
	}

	second := places[1]
	if second.Name != "Nameless Spot" {
		t.Errorf("display_name fallback gave name %q", second.Name)
	}
	if second.Latitude != nil || second.Longitude != nil {
		t.Error("unparsable coordinates should stay nil")
	}
}

func TestSearchPlacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL)
	if _, err := g.SearchPlaces(context.Background(), "anywhere"); err == nil {
		t.Error("expected error on provider failure")
	}
}

func TestPlaceDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/details" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if id := r.URL.Query().Get("place_id"); id != "42" {
			t.Errorf("unexpected place_id %q", id)
		}
		w.Write([]byte(`{
			"place_id":42,"category":"amenity","type":"cafe","localname":"Cafe Pap",
			"extratags":{"phone":"+256 414 000000","website":"https://cafepap.example"},
			"centroid":{"type":"Point","coordinates":[32.5811,0.3136]},
			"address":[
				{"localname":"Cafe Pap","isaddress":true},
				{"localname":"Parliament Avenue","isaddress":true},
				{"localname":"ignored","isaddress":false},
				{"localname":"Kampala","isaddress":true}
			]
		}`))
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL + "/search")
	place, err := g.PlaceDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("PlaceDetails error: %v", err)
	}
	if place == nil {
		t.Fatal("expected a place")
	}
	if place.Name != "Cafe Pap" || place.Category != "Cafe" {
		t.Errorf("place = %+v", place)
	}
	if place.Address != "Cafe Pap, Parliament Avenue, Kampala" {
		t.Errorf("address = %q", place.Address)
	}
	if place.Website != "https://cafepap.example" {
		t.Errorf("website = %q", place.Website)
	}
	if place.Latitude == nil || *place.Latitude != 0.3136 || *place.Longitude != 32.5811 {
		t.Errorf("coordinates = %v, %v", place.Latitude, place.Longitude)
	}
}

func TestPlaceDetailsUnknownID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL)
	place, err := g.PlaceDetails(context.Background(), 999)
	if err != nil {
		t.Fatalf("PlaceDetails error: %v", err)
	}
	if place != nil {
		t.Errorf("expected nil for unknown id, got %+v", place)
	}
}
