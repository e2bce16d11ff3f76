package multimodal

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freightrate/internal/engine"
	"freightrate/internal/geo"
	"freightrate/internal/refdata"
	"freightrate/internal/types"
)

const (
	defaultContainerType = Container40HC
	defaultWeightKg      = 20000.0

	// volatilityAlpha is the exponent on the index change in the nonlinear
	// formula B × (1 + Δ/100)^α.
	volatilityAlpha = 1.2

	fallbackRatePerNm = 0.5
	fallbackMinRate   = 1000.0

	currency = "USD"
)

// fallbackContainerFactor scales the distance-derived rate by container type.
// Unknown types price like a 20' dry van.
var fallbackContainerFactor = map[string]float64{
	Container20DV: 1.0,
	Container40DV: 1.4,
	Container40HC: 1.5,
}

// ecoChargeTypes are the ecological charge categories summed per end.
var ecoChargeTypes = []string{"ECA", "CLS"}

// Service prices ocean moves from the reference tables alone; it performs no
// external calls.
type Service struct {
	data *refdata.Store
	log  *zap.Logger
	now  func() time.Time
}

func NewService(data *refdata.Store, log *zap.Logger) *Service {
	return &Service{data: data, log: log, now: time.Now}
}

// Quote prices one container move. It fails fast on unknown ports and never
// fails on sparse reference data: every missing table row degrades to a
// neutral factor or a distance-derived fallback.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	origin, ok := s.data.Port(req.OriginPortID)
	if !ok {
		return Quote{}, fmt.Errorf("%w: origin port %q", engine.ErrNotFound, req.OriginPortID)
	}
	destination, ok := s.data.Port(req.DestinationPortID)
	if !ok {
		return Quote{}, fmt.Errorf("%w: destination port %q", engine.ErrNotFound, req.DestinationPortID)
	}
	if origin.ID == destination.ID {
		return Quote{}, fmt.Errorf("%w: origin and destination port are identical", engine.ErrInvalidInput)
	}

	containerType := req.ContainerType
	if containerType == "" {
		containerType = defaultContainerType
	}
	weightKg := req.WeightKg
	if weightKg == 0 {
		weightKg = defaultWeightKg
	}
	if weightKg < 0 {
		return Quote{}, fmt.Errorf("%w: weight must be positive", engine.ErrInvalidInput)
	}

	now := s.now()
	distanceNm := geo.HaversineNm(
		types.Coordinate{Lat: origin.Latitude, Lng: origin.Longitude},
		types.Coordinate{Lat: destination.Latitude, Lng: destination.Longitude},
	)

	baseRate, carriers, notes := s.baseRate(origin, destination, containerType, distanceNm)

	indexChange, routeKey, routeWeights := s.weightedIndexChange(origin.Region, destination.Region)
	volatility := math.Pow(1+indexChange/100, volatilityAlpha)
	crisis := s.data.CrisisMultiplier(origin.Region, destination.Region, now)
	adjusted := baseRate * volatility * crisis

	// The fuel surcharge is taken before the seasonal factor lands on the
	// adjusted rate; seasonality never inflates the fuel component.
	fuelPct := 0.0
	if band, ok := s.data.FuelSurcharge(origin.Region, destination.Region); ok {
		fuelPct = (band.MinPercent + band.MaxPercent) / 2 / 100
	}
	fuelSurcharge := adjusted * fuelPct

	ecoOrigin := s.ecoCharges(origin.Region, containerType)
	ecoDestination := s.ecoCharges(destination.Region, containerType)

	quarter := quarterOf(now)
	seasonal := 1.0
	if f, ok := s.data.SeasonalQuarterFactor(origin.Region, destination.Region, quarter); ok {
		seasonal = f
	}
	adjusted *= seasonal

	originLevel, originCongestion := s.congestion(origin.ID, containerType)
	destinationLevel, destinationCongestion := s.congestion(destination.ID, containerType)

	total := adjusted + fuelSurcharge + ecoOrigin + ecoDestination + originCongestion + destinationCongestion

	s.log.Debug("multimodal rate calculated",
		zap.String("origin", origin.ID),
		zap.String("destination", destination.ID),
		zap.String("container_type", containerType),
		zap.Float64("base_rate", baseRate),
		zap.Float64("total", total))

	return Quote{
		ID:          uuid.NewString(),
		Origin:      portInfo(origin),
		Destination: portInfo(destination),

		ContainerType: containerType,
		WeightKg:      weightKg,
		DistanceNm:    round2(distanceNm),

		BaseRate:            math.Round(baseRate),
		Carriers:            carriers,
		Notes:               notes,
		WeightedIndexChange: round2(indexChange),
		VolatilityFactor:    round4(volatility),
		CrisisMultiplier:    crisis,
		AdjustedRate:        math.Round(adjusted),

		FuelSurcharge:        math.Round(fuelSurcharge),
		FuelSurchargePercent: math.Round(fuelPct*1000) / 10,
		EcoChargeOrigin:      math.Round(ecoOrigin),
		EcoChargeDestination: math.Round(ecoDestination),

		SeasonalFactor: seasonal,
		Quarter:        quarter,

		OriginCongestionLevel:       originLevel,
		CongestionChargeOrigin:      math.Round(originCongestion),
		DestinationCongestionLevel:  destinationLevel,
		CongestionChargeDestination: math.Round(destinationCongestion),

		RouteKey:     routeKey,
		IndexWeights: routeWeights,

		Total:           types.MoneyFromFloat(total, currency),
		CalculationDate: calculationDate(now),
	}, nil
}

// baseRate returns the tariff-matrix rate for the region pair, or a
// distance-derived fallback when the matrix has no row.
func (s *Service) baseRate(origin, destination refdata.Port, containerType string, distanceNm float64) (rate float64, carriers, notes string) {
	if row, ok := s.data.ContainerRate(origin.Region, destination.Region, containerType); ok {
		return row.AvgRate, row.Carriers, row.Notes
	}

	factor, ok := fallbackContainerFactor[containerType]
	if !ok {
		factor = 1.0
	}
	rate = math.Max(distanceNm*fallbackRatePerNm*factor, fallbackMinRate)
	return rate, "estimated", "derived from great-circle distance"
}

// weightedIndexChange computes the index-weighted market change in percent.
// Route-specific weights win over the per-index defaults; the result is
// normalized by the sum of the weights actually used.
func (s *Service) weightedIndexChange(originRegion, destinationRegion string) (change float64, routeKey string, weights map[string]float64) {
	routeKey = s.routeKey(originRegion, destinationRegion)
	if routeKey != "" {
		weights, _ = s.data.IndexWeights(routeKey)
	}
	effective := weights
	if effective == nil {
		// Reverse direction shares the same market drivers.
		if reverseKey := s.routeKey(destinationRegion, originRegion); reverseKey != "" {
			effective, _ = s.data.IndexWeights(reverseKey)
		}
	}

	var weighted, totalWeight float64
	for _, idx := range s.data.Indices() {
		w := idx.DefaultWeight
		if effective != nil {
			routeWeight, ok := effective[idx.Name]
			if !ok {
				continue
			}
			w = routeWeight
		}
		weighted += idx.ChangePercent() * w
		totalWeight += w
	}
	if totalWeight > 0 {
		weighted /= totalWeight
	}
	return weighted, routeKey, weights
}

// routeKey resolves the weight-table key for a region pair, trying the exact
// pair first and then progressively broader spellings.
func (s *Service) routeKey(originRegion, destinationRegion string) string {
	candidates := []string{originRegion + "-" + destinationRegion}

	if originRegion == "North America East" || originRegion == "North America West" {
		candidates = append(candidates, "North America-"+destinationRegion)
	}
	if destinationRegion == "North America East" || destinationRegion == "North America West" {
		candidates = append(candidates, originRegion+"-North America")
	}
	if originRegion == destinationRegion {
		candidates = append(candidates, "Intra-"+originRegion)
	}
	if strings.Contains(originRegion, " ") {
		candidates = append(candidates, strings.ReplaceAll(originRegion, " ", "")+"-"+destinationRegion)
	}
	if strings.Contains(destinationRegion, " ") {
		candidates = append(candidates, originRegion+"-"+strings.ReplaceAll(destinationRegion, " ", ""))
	}

	for _, key := range candidates {
		if _, ok := s.data.IndexWeights(key); ok {
			return key
		}
	}
	return ""
}

func (s *Service) ecoCharges(region, containerType string) float64 {
	var sum float64
	for _, chargeType := range ecoChargeTypes {
		if amount, ok := s.data.EcoCharge(region, chargeType, containerType); ok {
			sum += amount
		}
	}
	return sum
}

// congestion returns the configured congestion level and charge for a port,
// or the neutral "medium" level with no charge.
func (s *Service) congestion(portID, containerType string) (string, float64) {
	if level, amount, ok := s.data.CongestionCharge(portID, containerType); ok {
		return level, amount
	}
	return "medium", 0
}

func quarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

func portInfo(p refdata.Port) PortInfo {
	return PortInfo{ID: p.ID, Name: p.Name, Country: p.Country, Region: p.Region}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round4(f float64) float64 { return math.Round(f*10000) / 10000 }
