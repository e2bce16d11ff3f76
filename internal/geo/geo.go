package geo

import (
	"context"

	"freightrate/internal/types"
)

// Geocoder resolves a free-text address to its best-match coordinate pair.
// found is false when the service answered but knows no such place; err is
// reserved for transport and service failures, which callers may retry.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (coord types.Coordinate, found bool, err error)
}

// Router returns the road path length in kilometres between two coordinate
// pairs. An empty-route answer is reported as an error.
type Router interface {
	RoadDistanceKm(ctx context.Context, from, to types.Coordinate) (float64, error)
}
