// Package refdata holds the immutable-per-process reference tables the
// quoting services read: postal-code regions, regional rate matrices,
// correction factors, the port registry and the market index tables.
// Everything is loaded once at startup and shared without locking.
package refdata

import (
	"encoding/json"
	"time"
)

// FactorMap is a numeric factor table stored as a JSON object inside a CSV
// column, e.g. {"1": 0.9, "2": 0.9, ...} for monthly seasonal factors.
type FactorMap map[string]float64

func (m *FactorMap) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, (*map[string]float64)(m))
}

// Date is a calendar day in the "2006-01-02" form the rate files use.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// RegionRow maps one postal code of a country to its rate-table region.
type RegionRow struct {
	CountryCode string `csv:"country_code"`
	PostalCode  string `csv:"postal_code"`
	Region      string `csv:"region"`
	PlaceName   string `csv:"place_name"`
}

// RouteRate is the tariff row for an ordered region pair. Absence of a row
// is a valid state; the pricing pipeline then synthesizes defaults.
type RouteRate struct {
	FromRegion      string    `csv:"from_region"`
	ToRegion        string    `csv:"to_region"`
	DistanceKm      float64   `csv:"distance_km"`
	BaseRatePerLDM  float64   `csv:"base_rate_per_ldm"`
	BaseRatePerKm   float64   `csv:"base_rate_per_km"`
	Coefficient     float64   `csv:"coefficient"`
	SeasonalFactors FactorMap `csv:"seasonal_factors"`
	UrgencyFactors  FactorMap `csv:"urgency_factors"`
}

// CorrectionFactors is the bucketed multiplier set applied on top of base
// rates. The bucket tables are keyed by half-open interval labels.
type CorrectionFactors struct {
	DistanceFactors       map[string]float64 `json:"distance_factors"`
	LDMFactors            map[string]float64 `json:"ldm_factors"`
	WeightFactors         map[string]float64 `json:"weight_factors"`
	BaseRateLDMCorrection float64            `json:"base_rate_ldm_correction"`
	BaseRateKmCorrection  float64            `json:"base_rate_km_correction"`
	GeneralCorrection     float64            `json:"general_correction"`
}

// DistanceFactor returns the distance-bucket multiplier, 1.0 when the bucket
// is not configured.
func (c CorrectionFactors) DistanceFactor(distanceKm float64) float64 {
	var key string
	switch {
	case distanceKm < 500:
		key = "0-500"
	case distanceKm < 1000:
		key = "500-1000"
	case distanceKm < 1500:
		key = "1000-1500"
	case distanceKm < 2000:
		key = "1500-2000"
	default:
		key = "2000+"
	}
	return factorOrOne(c.DistanceFactors, key)
}

// LDMFactor returns the load-bucket multiplier.
func (c CorrectionFactors) LDMFactor(ldm float64) float64 {
	var key string
	switch {
	case ldm <= 1:
		key = "0-1"
	case ldm <= 5:
		key = "1-5"
	case ldm <= 10:
		key = "5-10"
	default:
		key = "10+"
	}
	return factorOrOne(c.LDMFactors, key)
}

// WeightFactor returns the weight-bucket multiplier.
func (c CorrectionFactors) WeightFactor(weightKg float64) float64 {
	var key string
	switch {
	case weightKg <= 1000:
		key = "0-1000"
	case weightKg <= 3000:
		key = "1000-3000"
	case weightKg <= 6000:
		key = "3000-6000"
	default:
		key = "6000+"
	}
	return factorOrOne(c.WeightFactors, key)
}

// LDMRateCorrection returns the base per-LDM rate correction, default 1.0.
func (c CorrectionFactors) LDMRateCorrection() float64 { return oneIfZero(c.BaseRateLDMCorrection) }

// KmRateCorrection returns the base per-km rate correction, default 1.0.
func (c CorrectionFactors) KmRateCorrection() float64 { return oneIfZero(c.BaseRateKmCorrection) }

// General returns the global correction constant, default 1.0.
func (c CorrectionFactors) General() float64 { return oneIfZero(c.GeneralCorrection) }

func factorOrOne(m map[string]float64, key string) float64 {
	if f, ok := m[key]; ok {
		return f
	}
	return 1.0
}

func oneIfZero(f float64) float64 {
	if f == 0 {
		return 1.0
	}
	return f
}

// RegionCenter is a region's representative center coordinate, used by the
// great-circle distance fallback.
type RegionCenter struct {
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lon"`
}

// Port is one row of the port registry.
type Port struct {
	ID        string  `csv:"id"`
	Name      string  `csv:"name"`
	Country   string  `csv:"country"`
	Region    string  `csv:"region"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

// ContainerRate is the ocean base rate for a region pair and container type.
type ContainerRate struct {
	OriginRegion      string  `csv:"origin_region"`
	DestinationRegion string  `csv:"destination_region"`
	ContainerType     string  `csv:"container_type"`
	AvgRate           float64 `csv:"avg_rate"`
	Carriers          string  `csv:"carriers"`
	Notes             string  `csv:"notes"`
}

// FuelSurcharge is a min/max percentage band for a region pair.
type FuelSurcharge struct {
	OriginRegion      string  `csv:"origin_region"`
	DestinationRegion string  `csv:"destination_region"`
	MinPercent        float64 `csv:"min_percent"`
	MaxPercent        float64 `csv:"max_percent"`
	DateUpdated       Date    `csv:"date_updated"`
}

// EcoCharge is a fixed-amount ecological charge keyed by region, charge type
// (ECA, CLS) and container type.
type EcoCharge struct {
	Region        string  `csv:"region"`
	ChargeType    string  `csv:"charge_type"`
	ContainerType string  `csv:"container_type"`
	Amount        float64 `csv:"amount"`
	Currency      string  `csv:"currency"`
	DateUpdated   Date    `csv:"date_updated"`
}

// SeasonalQuarterFactor is the quarter-indexed seasonal multiplier for a
// region pair, quarters named Q1..Q4.
type SeasonalQuarterFactor struct {
	OriginRegion      string  `csv:"origin_region"`
	DestinationRegion string  `csv:"destination_region"`
	Quarter           string  `csv:"quarter"`
	Factor            float64 `csv:"factor"`
	DateUpdated       Date    `csv:"date_updated"`
}

// CongestionCharge is a fixed port congestion charge by severity level and
// container type.
type CongestionCharge struct {
	PortID          string  `csv:"port_id"`
	CongestionLevel string  `csv:"congestion_level"`
	ContainerType   string  `csv:"container_type"`
	Amount          float64 `csv:"amount"`
	Currency        string  `csv:"currency"`
	DateUpdated     Date    `csv:"date_updated"`
}

// CrisisWindow is a temporary multiplier active between StartDate and
// EndDate for a "ORIGIN-DESTINATION" region pair. Windows may overlap; the
// active multiplier is the maximum among overlapping windows.
type CrisisWindow struct {
	RegionPair  string  `csv:"region_pair"`
	StartDate   Date    `csv:"start_date"`
	EndDate     Date    `csv:"end_date"`
	Multiplier  float64 `csv:"multiplier"`
	Description string  `csv:"description"`
}

// Active reports whether the window covers at.
func (w CrisisWindow) Active(at time.Time) bool {
	return !at.Before(w.StartDate.Time) && !at.After(w.EndDate.Time)
}

// FreightIndex is a market freight index with its base value and the default
// weight used when no route-specific override exists.
type FreightIndex struct {
	Name          string  `csv:"index_name"`
	CurrentValue  float64 `csv:"current_value"`
	BaseValue     float64 `csv:"base_value"`
	DefaultWeight float64 `csv:"weight"`
	Description   string  `csv:"description"`
	DateUpdated   Date    `csv:"date_updated"`
}

// ChangePercent is the percentage change of the index against its base.
func (i FreightIndex) ChangePercent() float64 {
	if i.BaseValue == 0 {
		return 0
	}
	return (i.CurrentValue - i.BaseValue) / i.BaseValue * 100
}

// RouteIndexWeight overrides an index's default weight for one route key.
type RouteIndexWeight struct {
	Route       string  `csv:"route"`
	IndexName   string  `csv:"index_name"`
	Weight      float64 `csv:"weight"`
	DateUpdated Date    `csv:"date_updated"`
}

// CountryRate is the overland first-leg tariff for an origin country.
type CountryRate struct {
	CountryCode           string  `csv:"country_code"`
	BaseRatePerLoadingMtr float64 `csv:"base_rate_per_loading_meter"`
	BaseRatePerKm         float64 `csv:"base_rate_per_km"`
	Coefficient           float64 `csv:"coefficient"`
}

// BackhaulParam models the chance of a return load and the discount it earns.
type BackhaulParam struct {
	CountryCode string  `csv:"country_code"`
	Probability float64 `csv:"backhaul_probability"`
	MaxDiscount float64 `csv:"max_discount"`
}

// CityRate is the second-leg tariff for a destination country and city.
type CityRate struct {
	CountryCode    string  `csv:"country_code"`
	City           string  `csv:"city"`
	RatePerKm      float64 `csv:"rate_per_km"`
	BaseDistanceKm float64 `csv:"base_distance_km"`
	CustomsPerLDM  float64 `csv:"customs_per_ldm"`
}
