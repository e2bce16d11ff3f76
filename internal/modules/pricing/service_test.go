package pricing

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"freightrate/internal/engine"
	"freightrate/internal/modules/distance"
	"freightrate/internal/modules/location"
	"freightrate/internal/refdata"
)

type stubDistance struct {
	km    float64
	calls int
}

func (d *stubDistance) Between(context.Context, distance.Endpoint, distance.Endpoint) float64 {
	d.calls++
	return d.km
}

func fixtureStore() *refdata.Store {
	return refdata.New(refdata.Tables{
		Regions: []refdata.RegionRow{
			{CountryCode: "DE", PostalCode: "40210", Region: "DE_WEST", PlaceName: "Duesseldorf"},
			{CountryCode: "FR", PostalCode: "59000", Region: "FR_NORTH", PlaceName: "Lille"},
			{CountryCode: "FR", PostalCode: "13001", Region: "FR_SOUTH", PlaceName: "Marseille"},
		},
		RouteRates: []refdata.RouteRate{{
			FromRegion:      "DE_WEST",
			ToRegion:        "FR_NORTH",
			DistanceKm:      500,
			BaseRatePerLDM:  100,
			BaseRatePerKm:   0.5,
			Coefficient:     1.0,
			SeasonalFactors: refdata.FactorMap{"6": 1.0, "10": 1.15},
		}},
		// Empty correction tables: every bucket factor defaults to 1.0.
	})
}

func newTestService(km float64) (*Service, *stubDistance) {
	store := fixtureStore()
	dist := &stubDistance{km: km}
	svc := NewService(location.NewResolver(store), dist, store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc, dist
}

func baseRequest() Request {
	return Request{
		FromCountry: "DE", FromPostal: "40210",
		ToCountry: "FR", ToPostal: "59000",
		LDM: 5, WeightKg: 1000, Month: time.June,
	}
}

// The canonical scenario: every factor pinned to 1.0 so the quote is the raw
// nonlinear formula plus insurance and the CO2 charge.
func TestQuote_PinnedScenario(t *testing.T) {
	svc, _ := newTestService(500)

	q, err := svc.Quote(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	loadScaled := math.Pow(5, 0.9)
	cost := math.Max(100*loadScaled, 0.5*math.Pow(500, 0.95)*loadScaled)
	wantTotal := math.Round((cost+cost*0.035+1000*0.02/1000)*100) / 100

	if got := q.Total.Float(); got != wantTotal {
		t.Errorf("total = %v, want %v", got, wantTotal)
	}
	if q.Total.Currency != "EUR" {
		t.Errorf("currency = %q", q.Total.Currency)
	}
	if q.ChargeableLDM != 5 {
		t.Errorf("chargeable = %v, want 5 (declared LDM dominates)", q.ChargeableLDM)
	}
	if q.DistanceFactor != 1.0 || q.VolumeCorrection != 1.0 || q.SeasonalFactor != 1.0 {
		t.Errorf("factors = %v/%v/%v, want all 1.0",
			q.DistanceFactor, q.VolumeCorrection, q.SeasonalFactor)
	}
	// The per-km term must win over the per-LDM term at 500 km.
	if cost != 0.5*math.Pow(500, 0.95)*loadScaled {
		t.Errorf("expected distance term to dominate the base cost max()")
	}
}

func TestQuote_ChargeableLoadInvariants(t *testing.T) {
	tests := []struct {
		name     string
		ldm      float64
		weightKg float64
	}{
		{"volume dominates", 5, 1000},
		{"weight dominates", 2, 9000},
		{"boundary", 2, 3700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(500)
			req := baseRequest()
			req.LDM, req.WeightKg = tt.ldm, tt.weightKg

			q, err := svc.Quote(context.Background(), req)
			if err != nil {
				t.Fatal(err)
			}
			if q.ChargeableLDM < tt.ldm {
				t.Errorf("chargeable %v < declared %v", q.ChargeableLDM, tt.ldm)
			}
			if q.ChargeableLDM < math.Round(tt.weightKg/DensityFactor*100)/100 {
				t.Errorf("chargeable %v < weight-derived %v", q.ChargeableLDM, tt.weightKg/DensityFactor)
			}
		})
	}
}

func TestQuote_MonotonicInDistance(t *testing.T) {
	var last float64
	for _, km := range []float64{100, 200, 300, 499} { // one bucket
		svc, _ := newTestService(km)
		q, err := svc.Quote(context.Background(), baseRequest())
		if err != nil {
			t.Fatal(err)
		}
		if got := q.Total.Float(); got < last {
			t.Fatalf("total %v at %vkm below %v at shorter distance", got, km, last)
		} else {
			last = got
		}
	}
}

func TestQuote_SameOriginAndDestination(t *testing.T) {
	svc, dist := newTestService(500)
	req := baseRequest()
	req.ToCountry, req.ToPostal = req.FromCountry, req.FromPostal

	_, err := svc.Quote(context.Background(), req)
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if dist.calls != 0 {
		t.Errorf("distance resolved %d times before validation", dist.calls)
	}
}

func TestQuote_UnresolvableRegion(t *testing.T) {
	svc, _ := newTestService(500)
	req := baseRequest()
	req.ToCountry, req.ToPostal = "XX", "00000"

	_, err := svc.Quote(context.Background(), req)
	if !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestQuote_DefaultRatesWhenNoTariffRow(t *testing.T) {
	svc, _ := newTestService(800)
	req := baseRequest()
	req.ToPostal = "13001" // FR_SOUTH: no DE_WEST->FR_SOUTH row
	req.Month = time.August

	q, err := svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	loadScaled := math.Pow(5, 0.9)
	cost := math.Max(350*loadScaled, 0.45*math.Pow(800, 0.95)*loadScaled) * 0.85 // default seasonal["8"]
	wantTotal := math.Round((cost*1.035+0.02)*100) / 100
	if got := q.Total.Float(); got != wantTotal {
		t.Errorf("total = %v, want %v (synthesized defaults)", got, wantTotal)
	}
	if q.SeasonalFactor != 0.85 {
		t.Errorf("seasonal = %v, want default-table 0.85 for August", q.SeasonalFactor)
	}
}

func TestQuote_SeasonalFactorFromTariffRow(t *testing.T) {
	svc, _ := newTestService(500)
	req := baseRequest()
	req.Month = time.October

	q, err := svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if q.SeasonalFactor != 1.15 {
		t.Errorf("seasonal = %v, want 1.15", q.SeasonalFactor)
	}
}

func TestQuote_FailsClosedOnBadDistance(t *testing.T) {
	for _, km := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		svc, _ := newTestService(km)
		_, err := svc.Quote(context.Background(), baseRequest())
		if !errors.Is(err, engine.ErrCalculation) {
			t.Errorf("distance %v: err = %v, want ErrCalculation", km, err)
		}
	}
}

func TestQuote_InvalidLoad(t *testing.T) {
	svc, _ := newTestService(500)
	req := baseRequest()
	req.LDM = 0

	if _, err := svc.Quote(context.Background(), req); !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
