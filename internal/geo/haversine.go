// Package geo — pure geographic computation helpers and the external
// geocoding/routing clients.
package geo

import (
	"math"

	"freightrate/internal/types"
)

const (
	earthRadiusKm = 6371.0
	// Ocean legs are quoted in nautical miles.
	earthRadiusNm = 3440.07
)

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Coordinate) float64 {
	return earthRadiusKm * haversineCentralAngle(a, b)
}

// HaversineNm returns the great-circle distance in nautical miles.
func HaversineNm(a, b types.Coordinate) float64 {
	return earthRadiusNm * haversineCentralAngle(a, b)
}

func haversineCentralAngle(a, b types.Coordinate) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
