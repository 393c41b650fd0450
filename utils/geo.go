package utils

import (
	"fmt"
	"math"
)

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000

// DefaultCheckinRadiusMeters is the proximity radius for GPS-verified check-ins.
const DefaultCheckinRadiusMeters = 500

// CalculateDistance returns the great-circle distance between two points in
// meters, rounded to the nearest whole meter.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusMeters * c)
}

// IsWithinRadius reports whether two points are at most radiusMeters apart.
// A distance exactly equal to the radius counts as within.
func IsWithinRadius(userLat, userLon, targetLat, targetLon, radiusMeters float64) bool {
	return CalculateDistance(userLat, userLon, targetLat, targetLon) <= radiusMeters
}

// FormatDistance renders a distance for display: "342m" below one kilometer,
// "1.2km" at or above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
