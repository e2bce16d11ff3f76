// README: Pricing service; nonlinear regional rate calculation.
package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freightrate/internal/engine"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/location"
	"freightrate/internal/refdata"
	"freightrate/internal/types"
)

const (
	// DensityFactor converts weight to a volumetric load equivalent (kg per LDM).
	DensityFactor = 1850.0

	// Sub-unity exponents encode economies of scale. The formula depends on
	// them staying below 1; do not linearize.
	ldmPower      = 0.9
	distancePower = 0.95

	insuranceRate = 0.035
	co2RatePerTon = 0.02

	// Synthesized base rates when no tariff row exists for a region pair.
	defaultBaseRatePerLDM = 350.0
	defaultBaseRatePerKm  = 0.45

	currency = "EUR"
)

// defaultSeasonalFactors applies when a region pair has no tariff row.
var defaultSeasonalFactors = refdata.FactorMap{
	"1": 0.9, "2": 0.9, "3": 0.95, "4": 1.0, "5": 1.0, "6": 1.05,
	"7": 0.9, "8": 0.85, "9": 1.1, "10": 1.15, "11": 1.1, "12": 1.0,
}

// DistanceResolver is the slice of the distance module this service needs.
type DistanceResolver interface {
	Between(ctx context.Context, from, to distance.Endpoint) float64
}

type Service struct {
	locations *location.Resolver
	distance  DistanceResolver
	data      *refdata.Store
	log       *zap.Logger
	now       func() time.Time
}

func NewService(locations *location.Resolver, dist DistanceResolver, data *refdata.Store, log *zap.Logger) *Service {
	return &Service{
		locations: locations,
		distance:  dist,
		data:      data,
		log:       log,
		now:       time.Now,
	}
}

// Quote prices a regional shipment. Identifier problems surface as
// ErrNotFound/ErrInvalidInput; missing rate data degrades to defaults.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	if req.LDM <= 0 || req.WeightKg <= 0 {
		return Quote{}, fmt.Errorf("%w: ldm and weight must be positive", engine.ErrInvalidInput)
	}
	if req.FromCountry == req.ToCountry && req.FromPostal == req.ToPostal {
		return Quote{}, fmt.Errorf("%w: origin and destination cannot be the same", engine.ErrInvalidInput)
	}

	from, err := s.locations.Resolve(req.FromCountry, req.FromPostal)
	if err != nil {
		return Quote{}, err
	}
	to, err := s.locations.Resolve(req.ToCountry, req.ToPostal)
	if err != nil {
		return Quote{}, err
	}

	month := req.Month
	if month == 0 {
		month = s.now().Month()
	}

	km := s.distance.Between(ctx,
		distance.Endpoint{Address: from.Address(), Region: from.Region},
		distance.Endpoint{Address: to.Address(), Region: to.Region})

	breakdown, err := s.price(km, req.LDM, req.WeightKg, from.Region, to.Region, month)
	if err != nil {
		return Quote{}, err
	}

	s.log.Info("regional quote",
		zap.String("from", from.Region), zap.String("to", to.Region),
		zap.Float64("distance_km", km), zap.Float64("total", breakdown.total))

	return Quote{
		ID:               uuid.NewString(),
		From:             from,
		To:               to,
		DistanceKm:       math.Round(km*100) / 100,
		LDM:              req.LDM,
		WeightKg:         req.WeightKg,
		ChargeableLDM:    math.Round(breakdown.chargeableLDM*100) / 100,
		Month:            month,
		DistanceFactor:   breakdown.distanceFactor,
		VolumeCorrection: breakdown.volumeCorrection,
		SeasonalFactor:   breakdown.seasonalFactor,
		BaseCost:         breakdown.baseCost,
		Insurance:        breakdown.insurance,
		CO2Surcharge:     breakdown.co2,
		Total:            types.MoneyFromFloat(breakdown.total, currency),
	}, nil
}

type breakdown struct {
	chargeableLDM    float64
	distanceFactor   float64
	volumeCorrection float64
	seasonalFactor   float64
	baseCost         float64
	insurance        float64
	co2              float64
	total            float64
}

// price runs the correction pipeline. It fails closed on a distance it
// cannot trust instead of quoting from zero.
func (s *Service) price(distanceKm, ldm, weightKg float64, fromRegion, toRegion string, month time.Month) (breakdown, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm <= 0 {
		return breakdown{}, fmt.Errorf("%w: unusable distance %v", engine.ErrCalculation, distanceKm)
	}

	chargeable := math.Max(ldm, weightKg/DensityFactor)
	cf := s.data.Corrections()

	var ratePerLDM, ratePerKm float64
	var seasonal refdata.FactorMap
	if rate, ok := s.data.RouteRate(fromRegion, toRegion); ok {
		ratePerLDM = rate.BaseRatePerLDM * cf.LDMRateCorrection()
		ratePerKm = rate.BaseRatePerKm * cf.KmRateCorrection()
		seasonal = rate.SeasonalFactors
	} else {
		ratePerLDM = defaultBaseRatePerLDM * cf.LDMRateCorrection()
		ratePerKm = defaultBaseRatePerKm * cf.KmRateCorrection()
		seasonal = defaultSeasonalFactors
	}

	distanceFactor := cf.DistanceFactor(distanceKm)
	// The smaller of the two bucket factors applies: the engine never
	// penalizes on both the load and the weight axis at once.
	volumeCorrection := math.Min(cf.LDMFactor(ldm), cf.WeightFactor(weightKg))

	loadScaled := math.Pow(chargeable, ldmPower)
	cost := math.Max(
		ratePerLDM*loadScaled,
		ratePerKm*math.Pow(distanceKm, distancePower)*loadScaled,
	) * distanceFactor * volumeCorrection

	cost *= cf.General()

	seasonalFactor := 1.0
	if f, ok := seasonal[strconv.Itoa(int(month))]; ok {
		seasonalFactor = f
		cost *= f
	}

	insurance := cost * insuranceRate
	co2 := weightKg * co2RatePerTon / 1000

	return breakdown{
		chargeableLDM:    chargeable,
		distanceFactor:   distanceFactor,
		volumeCorrection: volumeCorrection,
		seasonalFactor:   seasonalFactor,
		baseCost:         cost,
		insurance:        insurance,
		co2:              co2,
		total:            cost + insurance + co2,
	}, nil
}
