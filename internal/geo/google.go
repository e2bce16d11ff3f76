package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"freightrate/internal/types"
)

// GoogleClient implements Geocoder and Router on top of the Google Maps
// Geocoding and Directions APIs.
type GoogleClient struct {
	client *maps.Client
}

// NewGoogleClient creates a GoogleClient with the given API key.
func NewGoogleClient(apiKey string) (*GoogleClient, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{client: client}, nil
}

func (g *GoogleClient) Geocode(ctx context.Context, address string) (types.Coordinate, bool, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return types.Coordinate{}, false, nil
	}
	loc := results[0].Geometry.Location
	return types.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}

func (g *GoogleClient) RoadDistanceKm(ctx context.Context, from, to types.Coordinate) (float64, error) {
	r := &maps.DirectionsRequest{
		Origin:      from.String(),
		Destination: to.String(),
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("directions api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}

	meters := 0
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}
	return float64(meters) / 1000, nil
}
