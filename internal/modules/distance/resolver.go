// README: Distance resolver; geocode+routing with cache, retry and matrix fallback.
package distance

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"freightrate/internal/geo"
	"freightrate/internal/geocache"
	"freightrate/internal/refdata"
	"freightrate/internal/types"
)

const (
	// Roads run roughly 20-40% longer than the great circle.
	roadFactor = 1.3
	// Last-resort estimate when even region centers are unknown.
	defaultDistanceKm = 1000.0
)

// Endpoint is one side of a distance query. Coord short-circuits geocoding
// (ports carry registry coordinates); Region feeds the matrix fallback.
type Endpoint struct {
	Address string
	Region  string
	Coord   *types.Coordinate
}

// Resolver produces a travel distance between two endpoints. It never fails:
// every miss drops one rung down the fallback ladder, ending at a fixed
// default.
type Resolver struct {
	geocoder geo.Geocoder
	router   geo.Router
	cache    geocache.Store
	data     *refdata.Store
	log      *zap.Logger

	sleep func(time.Duration)
}

// NewResolver wires the resolver. geocoder and router may be nil, in which
// case external lookups are skipped and distances come from the matrix
// ladder only.
func NewResolver(geocoder geo.Geocoder, router geo.Router, cache geocache.Store, data *refdata.Store, log *zap.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		router:   router,
		cache:    cache,
		data:     data,
		log:      log,
		sleep:    time.Sleep,
	}
}

// Between resolves the road distance in kilometres from one endpoint to the
// other. Ladder: cached/external geocode + road routing, then the stored
// rate-matrix distance (direct, then reverse pair), then great-circle
// between region centers inflated by the road factor, then the default.
func (r *Resolver) Between(ctx context.Context, from, to Endpoint) float64 {
	fromCoord, fromOK := r.coordinates(ctx, from)
	toCoord, toOK := r.coordinates(ctx, to)

	if fromOK && toOK {
		if km, ok := r.roadDistance(ctx, fromCoord, toCoord); ok {
			return km
		}
	}
	return r.matrixDistance(from.Region, to.Region)
}

// coordinates resolves one endpoint to a coordinate pair: explicit
// coordinate, then cache, then the external geocoder with retry/backoff.
// Only successful geocodes are written back to the cache.
func (r *Resolver) coordinates(ctx context.Context, ep Endpoint) (types.Coordinate, bool) {
	if ep.Coord != nil {
		return *ep.Coord, true
	}
	if ep.Address == "" {
		return types.Coordinate{}, false
	}

	if entry, ok, err := r.cache.Lookup(ctx, ep.Address); err == nil && ok && entry.Found {
		return types.Coordinate{Lat: entry.Lat, Lng: entry.Lng}, true
	} else if err != nil {
		r.log.Warn("geocode cache lookup failed", zap.String("address", ep.Address), zap.Error(err))
	}

	if r.geocoder == nil {
		return types.Coordinate{}, false
	}

	var coord types.Coordinate
	ok := runWithBackoff(ctx, r.sleep, func(actx context.Context) outcome {
		c, found, err := r.geocoder.Geocode(actx, ep.Address)
		if err != nil {
			r.log.Warn("geocoding attempt failed", zap.String("address", ep.Address), zap.Error(err))
			return outcomeRetryable
		}
		if !found {
			return outcomeRetryable
		}
		coord = c
		return outcomeSuccess
	})
	if !ok {
		r.log.Info("address not geocodable", zap.String("address", ep.Address))
		return types.Coordinate{}, false
	}

	entry := geocache.Entry{Lat: coord.Lat, Lng: coord.Lng, Found: true}
	if err := r.cache.Save(ctx, ep.Address, entry); err != nil {
		r.log.Warn("geocode cache save failed", zap.String("address", ep.Address), zap.Error(err))
	}
	return coord, true
}

func (r *Resolver) roadDistance(ctx context.Context, from, to types.Coordinate) (float64, bool) {
	if r.router == nil {
		return 0, false
	}
	var km float64
	ok := runWithBackoff(ctx, r.sleep, func(actx context.Context) outcome {
		d, err := r.router.RoadDistanceKm(actx, from, to)
		if err != nil {
			r.log.Warn("routing attempt failed", zap.Error(err))
			return outcomeRetryable
		}
		km = d
		return outcomeSuccess
	})
	return km, ok
}

func (r *Resolver) matrixDistance(fromRegion, toRegion string) float64 {
	km, ok := firstOf(
		func() (float64, bool) {
			if rate, ok := r.data.RouteRate(fromRegion, toRegion); ok {
				return rate.DistanceKm, true
			}
			return 0, false
		},
		// Distance is near-symmetric even when rates are not.
		func() (float64, bool) {
			if rate, ok := r.data.RouteRate(toRegion, fromRegion); ok {
				return rate.DistanceKm, true
			}
			return 0, false
		},
		func() (float64, bool) { return r.centerDistance(fromRegion, toRegion) },
	)
	if !ok {
		r.log.Info("no matrix distance, using default",
			zap.String("from", fromRegion), zap.String("to", toRegion))
		return defaultDistanceKm
	}
	return km
}

func (r *Resolver) centerDistance(fromRegion, toRegion string) (float64, bool) {
	fromCenter, ok := r.data.RegionCenter(fromRegion)
	if !ok {
		return 0, false
	}
	toCenter, ok := r.data.RegionCenter(toRegion)
	if !ok {
		return 0, false
	}
	km := geo.HaversineKm(fromCenter, toCenter) * roadFactor
	return math.Round(km*10) / 10, true
}
