package itinerary

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freightrate/internal/engine"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/location"
	"freightrate/internal/refdata"
	"freightrate/internal/types"
)

const (
	// MaxLDM is the largest bookable load; anything above needs a full truck.
	MaxLDM = 10.0

	densityFactor     = 1850.0
	insuranceRate     = 0.05
	co2RatePerKg      = 0.008
	terminalCostPerTn = 50.0

	currency = "EUR"
)

// defaultBackhaul applies when the origin country has no tuned return-load
// parameters.
var defaultBackhaul = refdata.BackhaulParam{Probability: 0.5, MaxDiscount: 0.2}

// DistanceResolver yields the road distance between two endpoints in km.
type DistanceResolver interface {
	Between(ctx context.Context, from, to distance.Endpoint) float64
}

// Service prices the two-leg move. hubAddress is the transshipment point the
// European leg terminates at.
type Service struct {
	locations  *location.Resolver
	distance   DistanceResolver
	data       *refdata.Store
	hubAddress string
	log        *zap.Logger
}

func NewService(locations *location.Resolver, dist DistanceResolver, data *refdata.Store, hubAddress string, log *zap.Logger) *Service {
	return &Service{
		locations:  locations,
		distance:   dist,
		data:       data,
		hubAddress: hubAddress,
		log:        log,
	}
}

// Quote prices one itinerary. The European leg is deliberately priced on the
// full origin-to-destination distance, not just the leg to the hub: the hub
// handover does not reset the line-haul tariff.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	if req.LDM < 1 || req.LDM > MaxLDM {
		return Quote{}, fmt.Errorf("%w: ldm must be between 1 and %v", engine.ErrInvalidInput, MaxLDM)
	}
	if req.WeightKg <= 0 || req.WeightKg > req.LDM*densityFactor {
		return Quote{}, fmt.Errorf("%w: weight must be positive and at most %v kg for %v ldm",
			engine.ErrInvalidInput, req.LDM*densityFactor, req.LDM)
	}

	origin, err := s.locations.Resolve(req.FromCountry, req.FromPostal)
	if err != nil {
		return Quote{}, err
	}
	countryRate, ok := s.data.CountryRate(req.FromCountry)
	if !ok {
		return Quote{}, fmt.Errorf("%w: no line-haul tariff for country %s", engine.ErrNotFound, req.FromCountry)
	}
	cityRate, ok := s.data.CityRate(req.ToCountry, req.ToCity)
	if !ok {
		return Quote{}, fmt.Errorf("%w: no tariff for %s, %s", engine.ErrNotFound, req.ToCity, req.ToCountry)
	}

	originEndpoint := distance.Endpoint{Address: origin.Address(), Region: origin.Region}
	hubEndpoint := distance.Endpoint{Address: s.hubAddress}
	destEndpoint := distance.Endpoint{Address: req.ToCity + ", " + req.ToCountry}

	legToHub := s.distance.Between(ctx, originEndpoint, hubEndpoint)
	legFromHub := s.distance.Between(ctx, hubEndpoint, destEndpoint)
	fullDistance := legToHub + legFromHub

	chargeableLDM := math.Max(req.LDM, req.WeightKg/densityFactor)

	baseCost := math.Max(
		countryRate.BaseRatePerLoadingMtr*req.LDM,
		countryRate.BaseRatePerKm*fullDistance*req.LDM,
	) * oneIfZero(countryRate.Coefficient)

	backhaul, ok := s.data.Backhaul(req.FromCountry)
	if !ok {
		backhaul = defaultBackhaul
	}
	discount := baseCost * backhaul.Probability * backhaul.MaxDiscount
	europeLeg := baseCost - discount
	insurance := europeLeg * insuranceRate
	co2 := req.WeightKg * co2RatePerKg

	asiaLeg := cityRate.RatePerKm*cityRate.BaseDistanceKm*chargeableLDM +
		cityRate.CustomsPerLDM*chargeableLDM

	terminal := math.Ceil(req.WeightKg/1000) * terminalCostPerTn

	total := europeLeg + insurance + co2 + asiaLeg + terminal

	s.log.Debug("itinerary priced",
		zap.String("from", origin.Address()),
		zap.String("to", req.ToCity+", "+req.ToCountry),
		zap.Float64("distance_km", fullDistance),
		zap.Float64("total", total))

	return Quote{
		ID:   uuid.NewString(),
		From: origin.Address(),
		To:   req.ToCity + ", " + req.ToCountry,

		DistanceKm:    round2(fullDistance),
		LDM:           req.LDM,
		WeightKg:      req.WeightKg,
		ChargeableLDM: round2(chargeableLDM),

		EuropeLegCost:    round2(europeLeg),
		BackhaulDiscount: round2(discount),
		Insurance:        round2(insurance),
		CO2Surcharge:     round2(co2),
		AsiaLegCost:      round2(asiaLeg),
		TerminalCost:     terminal,

		Total: types.MoneyFromFloat(total, currency),
	}, nil
}

func oneIfZero(f float64) float64 {
	if f == 0 {
		return 1.0
	}
	return f
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
