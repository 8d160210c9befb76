package utils

import "math"

const earthRadiusMeters = 6371000

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// CalculateHaversineDistance returns the great-circle distance between two coordinates in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsValidCoordinate checks latitude and longitude ranges.
func IsValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
