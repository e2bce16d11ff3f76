// Package multimodal prices ocean container moves between registered ports
// with a nonlinear index-adjusted model: the base rate matrix is scaled by a
// weighted freight-index change, crisis windows and a quarterly seasonal
// factor, then fuel, ecological and port congestion charges are added on top.
package multimodal

import (
	"time"

	"freightrate/internal/types"
)

// Supported container types and the distance-fallback multipliers per type.
const (
	Container20DV = "20dv"
	Container40DV = "40dv"
	Container40HC = "40hc"
)

// Request identifies the move to price. ContainerType defaults to 40hc and
// WeightKg to 20000 when zero.
type Request struct {
	OriginPortID      string
	DestinationPortID string
	ContainerType     string
	WeightKg          float64
}

// PortInfo is the port identity echoed back in a quote.
type PortInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

// Quote itemizes every component of the rate so callers can show the full
// buildup, not just the total.
type Quote struct {
	ID          string   `json:"id"`
	Origin      PortInfo `json:"origin"`
	Destination PortInfo `json:"destination"`

	ContainerType string  `json:"container_type"`
	WeightKg      float64 `json:"weight"`
	DistanceNm    float64 `json:"distance_nm"`

	BaseRate            float64 `json:"base_rate"`
	Carriers            string  `json:"carriers,omitempty"`
	Notes               string  `json:"notes,omitempty"`
	WeightedIndexChange float64 `json:"weighted_index_change"`
	VolatilityFactor    float64 `json:"volatility_factor"`
	CrisisMultiplier    float64 `json:"crisis_multiplier"`
	AdjustedRate        float64 `json:"adjusted_rate"`

	FuelSurcharge        float64 `json:"fuel_surcharge"`
	FuelSurchargePercent float64 `json:"fuel_surcharge_percent"`
	EcoChargeOrigin      float64 `json:"eco_charge_origin"`
	EcoChargeDestination float64 `json:"eco_charge_destination"`

	SeasonalFactor float64 `json:"seasonal_factor"`
	Quarter        string  `json:"quarter"`

	OriginCongestionLevel       string  `json:"origin_congestion_level"`
	CongestionChargeOrigin      float64 `json:"congestion_charge_origin"`
	DestinationCongestionLevel  string  `json:"destination_congestion_level"`
	CongestionChargeDestination float64 `json:"congestion_charge_destination"`

	RouteKey     string             `json:"route_key,omitempty"`
	IndexWeights map[string]float64 `json:"index_weights,omitempty"`

	Total           types.Money `json:"total"`
	CalculationDate string      `json:"calculation_date"`
}

func calculationDate(now time.Time) string { return now.Format("2006-01-02") }
