package utils

import (
	"testing"
)

func TestCalculateDistanceZero(t *testing.T) {
	if d := CalculateDistance(0, 0, 0, 0); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %v", d)
	}
}

func TestCalculateDistanceSymmetry(t *testing.T) {
	points := [][4]float64{
		{0.3476, 32.5825, 0.3136, 32.5811}, // Kampala
		{51.5074, -0.1278, 48.8566, 2.3522},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}
	for _, p := range points {
		ab := CalculateDistance(p[0], p[1], p[2], p[3])
		ba := CalculateDistance(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Errorf("distance not symmetric: d(a,b)=%v d(b,a)=%v", ab, ba)
		}
	}
}

func TestCalculateDistanceKnownValue(t *testing.T) {
	// One degree of latitude along a meridian is about 111.2 km.
	d := CalculateDistance(0, 0, 1, 0)
	if d < 111000 || d > 111500 {
		t.Errorf("1 degree latitude = %vm, want ~111195m", d)
	}
}

func TestIsWithinRadiusBoundary(t *testing.T) {
	lat2, lon2 := 0.0, 0.0045 // ~500m east along the equator
	d := CalculateDistance(0, 0, lat2, lon2)
	if !IsWithinRadius(0, 0, lat2, lon2, d) {
		t.Errorf("distance exactly equal to radius (%vm) should be within", d)
	}
	if IsWithinRadius(0, 0, lat2, lon2, d-1) {
		t.Errorf("distance %vm should not be within radius %vm", d, d-1)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{42, "42m"},
		{999, "999m"},
		{1000, "1.0km"},
		{1234, "1.2km"},
		{15500, "15.5km"},
	}
	for _, c := range cases {
		if got := FormatDistance(c.meters); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.meters, got, c.want)
		}
	}
}
