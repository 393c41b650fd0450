package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL:   baseURL,
		userAgent: "HangoutSpots/1.0",
		client:    &http.Client{Timeout: 2 * time.Second},
	}
}

func TestGeocoderEmptyAddress(t *testing.T) {
	g := newTestGeocoder("http://127.0.0.1:0")
	if coords := g.GetCoordinatesFromAddress(context.Background(), "   "); coords != nil {
		t.Errorf("expected nil for blank address, got %+v", coords)
	}
}

func TestGeocoderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "HangoutSpots/1.0" {
			t.Errorf("missing User-Agent header")
		}
		if q := r.URL.Query().Get("q"); q != "Kampala Road" {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(`[{"lat":"0.3136","lon":"32.5811"}]`))
	}))
	defer srv.Close()

	g := newTestGeocoder(srv.URL)
	coords := g.GetCoordinatesFromAddress(context.Background(), "Kampala Road")
	if coords == nil {
		t.Fatal("expected coordinates, got nil")
	}
	if coords.Latitude != 0.3136 || coords.Longitude != 32.5811 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestGeocoderDegradesToNil(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"zero results", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
		{"unparsable coordinates", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lat":"abc","lon":"def"}]`))
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()
			g := newTestGeocoder(srv.URL)
			if coords := g.GetCoordinatesFromAddress(context.Background(), "somewhere"); coords != nil {
				t.Errorf("expected nil, got %+v", coords)
			}
		})
	}
}

func TestGeocoderTransportFailure(t *testing.T) {
	g := newTestGeocoder("http://127.0.0.1:1")
	if coords := g.GetCoordinatesFromAddress(context.Background(), "somewhere"); coords != nil {
		t.Errorf("expected nil on connection failure, got %+v", coords)
	}
}
