// Package itinerary prices two-leg overland moves from a European postal
// origin to a Central Asian city, routed through the Gebze hub. The European
// leg is priced on the full door-to-door distance with a backhaul discount;
// the Asian leg uses fixed per-city tariffs.
package itinerary

import "freightrate/internal/types"

// Request is the two-leg move to price.
type Request struct {
	FromCountry string
	FromPostal  string
	ToCountry   string
	ToCity      string
	LDM         float64
	WeightKg    float64
}

// Quote is the itemized two-leg price.
type Quote struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`

	DistanceKm    float64 `json:"distance"`
	LDM           float64 `json:"ldm"`
	WeightKg      float64 `json:"weight"`
	ChargeableLDM float64 `json:"chargeable_ldm"`

	EuropeLegCost    float64 `json:"europe_leg_cost"`
	BackhaulDiscount float64 `json:"backhaul_discount"`
	Insurance        float64 `json:"insurance"`
	CO2Surcharge     float64 `json:"co2_surcharge"`
	AsiaLegCost      float64 `json:"asia_leg_cost"`
	TerminalCost     float64 `json:"terminal_cost"`

	Total types.Money `json:"total"`
}
