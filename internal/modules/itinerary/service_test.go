package itinerary

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"freightrate/internal/engine"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/location"
	"freightrate/internal/refdata"
	"freightrate/internal/types"
)

// stubDistance returns a fixed km per leg and records the endpoints asked for.
type stubDistance struct {
	perLeg float64
	legs   [][2]string
}

func (d *stubDistance) Between(_ context.Context, from, to distance.Endpoint) float64 {
	d.legs = append(d.legs, [2]string{from.Address, to.Address})
	return d.perLeg
}

func fixtureStore() *refdata.Store {
	return refdata.New(refdata.Tables{
		Regions: []refdata.RegionRow{
			{CountryCode: "DE", PostalCode: "70173", Region: "DE_SOUTH", PlaceName: "Stuttgart"},
		},
		CountryRates: []refdata.CountryRate{
			{CountryCode: "DE", BaseRatePerLoadingMtr: 120, BaseRatePerKm: 0.4, Coefficient: 1.1},
		},
		BackhaulParams: []refdata.BackhaulParam{
			{CountryCode: "DE", Probability: 0.6, MaxDiscount: 0.25},
		},
		CityRates: []refdata.CityRate{
			{CountryCode: "KZ", City: "Almaty", RatePerKm: 0.8, BaseDistanceKm: 300, CustomsPerLDM: 40},
		},
	})
}

func newTestService(perLegKm float64) (*Service, *stubDistance) {
	store := fixtureStore()
	dist := &stubDistance{perLeg: perLegKm}
	svc := NewService(location.NewResolver(store), dist, store, "41400 Gebze Türkiye", zap.NewNop())
	return svc, dist
}

func baseRequest() Request {
	return Request{
		FromCountry: "DE", FromPostal: "70173",
		ToCountry: "KZ", ToCity: "Almaty",
		LDM: 4, WeightKg: 5000,
	}
}

func TestQuote_TwoLegBuildup(t *testing.T) {
	svc, dist := newTestService(1500)

	q, err := svc.Quote(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if len(dist.legs) != 2 {
		t.Fatalf("resolved %d legs, want 2", len(dist.legs))
	}
	if dist.legs[0][1] != "41400 Gebze Türkiye" || dist.legs[1][0] != "41400 Gebze Türkiye" {
		t.Errorf("legs do not meet at the hub: %v", dist.legs)
	}
	if dist.legs[1][1] != "Almaty, KZ" {
		t.Errorf("destination endpoint = %q", dist.legs[1][1])
	}
	if q.DistanceKm != 3000 {
		t.Errorf("distance = %v, want 3000 (sum of legs)", q.DistanceKm)
	}

	// The line-haul tariff applies to the full 3000 km, not the hub leg.
	chargeable := math.Max(4, 5000/1850.0)
	base := math.Max(120*4, 0.4*3000*4) * 1.1
	discount := base * 0.6 * 0.25
	europe := base - discount
	insurance := europe * 0.05
	co2 := 5000 * 0.008
	asia := 0.8*300*chargeable + 40*chargeable
	terminal := 5.0 * 50

	if q.EuropeLegCost != math.Round(europe*100)/100 {
		t.Errorf("europe leg = %v, want %v", q.EuropeLegCost, europe)
	}
	if q.BackhaulDiscount != math.Round(discount*100)/100 {
		t.Errorf("discount = %v, want %v", q.BackhaulDiscount, discount)
	}
	if q.AsiaLegCost != math.Round(asia*100)/100 {
		t.Errorf("asia leg = %v, want %v", q.AsiaLegCost, asia)
	}
	if q.TerminalCost != terminal {
		t.Errorf("terminal = %v, want %v", q.TerminalCost, terminal)
	}
	want := types.MoneyFromFloat(europe+insurance+co2+asia+terminal, "EUR")
	if !q.Total.Amount.Equal(want.Amount) {
		t.Errorf("total = %v, want %v", q.Total.Amount, want.Amount)
	}
	if q.ChargeableLDM != math.Round(chargeable*100)/100 {
		t.Errorf("chargeable = %v, want %v", q.ChargeableLDM, chargeable)
	}
}

func TestQuote_TerminalCostRoundsUpPerTon(t *testing.T) {
	tests := []struct {
		weightKg float64
		want     float64
	}{
		{1000, 50},
		{1001, 100},
		{999, 50},
		{5000, 250},
	}
	for _, tt := range tests {
		svc, _ := newTestService(1000)
		req := baseRequest()
		req.WeightKg = tt.weightKg

		q, err := svc.Quote(context.Background(), req)
		if err != nil {
			t.Fatalf("weight %v: %v", tt.weightKg, err)
		}
		if q.TerminalCost != tt.want {
			t.Errorf("weight %v: terminal = %v, want %v", tt.weightKg, q.TerminalCost, tt.want)
		}
	}
}

func TestQuote_DefaultBackhaulParams(t *testing.T) {
	store := refdata.New(refdata.Tables{
		Regions: []refdata.RegionRow{
			{CountryCode: "FR", PostalCode: "75001", Region: "FR_NORTH", PlaceName: "Paris"},
		},
		CountryRates: []refdata.CountryRate{
			{CountryCode: "FR", BaseRatePerLoadingMtr: 100, BaseRatePerKm: 0.5, Coefficient: 1.0},
		},
		CityRates: []refdata.CityRate{
			{CountryCode: "KZ", City: "Almaty", RatePerKm: 0.8, BaseDistanceKm: 300, CustomsPerLDM: 40},
		},
	})
	svc := NewService(location.NewResolver(store), &stubDistance{perLeg: 1000}, store, "hub", zap.NewNop())

	q, err := svc.Quote(context.Background(), Request{
		FromCountry: "FR", FromPostal: "75001",
		ToCountry: "KZ", ToCity: "Almaty",
		LDM: 2, WeightKg: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	base := math.Max(100*2, 0.5*2000*2) * 1.0
	wantDiscount := math.Round(base*0.5*0.2*100) / 100
	if q.BackhaulDiscount != wantDiscount {
		t.Errorf("discount = %v, want default-params %v", q.BackhaulDiscount, wantDiscount)
	}
}

func TestQuote_LoadValidation(t *testing.T) {
	tests := []struct {
		name     string
		ldm      float64
		weightKg float64
	}{
		{"ldm below minimum", 0.5, 500},
		{"ldm above maximum", 11, 5000},
		{"zero weight", 4, 0},
		{"weight over density limit", 4, 4*1850 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dist := newTestService(1000)
			req := baseRequest()
			req.LDM, req.WeightKg = tt.ldm, tt.weightKg

			_, err := svc.Quote(context.Background(), req)
			if !errors.Is(err, engine.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if len(dist.legs) != 0 {
				t.Error("distance resolved before validation")
			}
		})
	}
}

func TestQuote_UnknownOriginAndTariffs(t *testing.T) {
	svc, _ := newTestService(1000)

	req := baseRequest()
	req.FromCountry, req.FromPostal = "XX", "00000"
	if _, err := svc.Quote(context.Background(), req); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown origin: err = %v, want ErrNotFound", err)
	}

	req = baseRequest()
	req.ToCity = "Samarkand"
	if _, err := svc.Quote(context.Background(), req); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown city: err = %v, want ErrNotFound", err)
	}
}
