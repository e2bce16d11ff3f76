// README: Regional freight quote request and itemized result.
package pricing

import (
	"time"

	"freightrate/internal/modules/location"
	"freightrate/internal/types"
)

type Request struct {
	FromCountry string
	FromPostal  string
	ToCountry   string
	ToPostal    string
	LDM         float64
	WeightKg    float64
	// Month selects the seasonal factor; zero means the current month.
	Month time.Month
}

// Quote is the itemized pricing result. It is immutable once produced and
// never persisted.
type Quote struct {
	ID   string            `json:"id"`
	From location.Location `json:"from"`
	To   location.Location `json:"to"`

	DistanceKm    float64    `json:"distance"`
	LDM           float64    `json:"ldm"`
	WeightKg      float64    `json:"weight"`
	ChargeableLDM float64    `json:"chargeable_ldm"`
	Month         time.Month `json:"month"`

	DistanceFactor   float64 `json:"distance_factor"`
	VolumeCorrection float64 `json:"volume_correction"`
	SeasonalFactor   float64 `json:"seasonal_factor"`

	BaseCost     float64     `json:"base_cost"`
	Insurance    float64     `json:"insurance"`
	CO2Surcharge float64     `json:"co2_surcharge"`
	Total        types.Money `json:"total"`
}
