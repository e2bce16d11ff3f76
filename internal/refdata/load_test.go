package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, regionsFile,
		"country_code,postal_code,region,place_name\n"+
			"DE,10115,DE_BERLIN,Berlin\n"+
			"FR,75001,FR_NORTH,Paris\n")
	writeFixture(t, dir, routeRatesFile,
		`from_region,to_region,distance_km,base_rate_per_ldm,base_rate_per_km,coefficient,seasonal_factors,urgency_factors
DE_BERLIN,FR_NORTH,1050,120,0.55,1.0,"{""6"": 1.05, ""12"": 0.95}","{""express"": 1.3}"
`)
	writeFixture(t, dir, correctionsFile,
		`{"distance_factors": {"0-500": 1.1}, "ldm_factors": {"1-5": 0.95},
		  "weight_factors": {"0-1000": 1.0}, "base_rate_ldm_correction": 1.02,
		  "base_rate_km_correction": 0.98, "general_correction": 1.01}`)
	writeFixture(t, dir, centersFile,
		`{"DE_BERLIN": {"center_lat": 52.52, "center_lon": 13.405}}`)
	writeFixture(t, dir, crisisFile,
		"region_pair,start_date,end_date,multiplier,description\n"+
			"Asia-Europe,2026-01-01,2026-12-31,1.4,Red Sea disruption\n")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := s.Region(RegionKey("DE", "10115")); !ok {
		t.Error("expected DE_10115 region row")
	}
	rate, ok := s.RouteRate("DE_BERLIN", "FR_NORTH")
	if !ok {
		t.Fatal("expected route rate row")
	}
	if rate.DistanceKm != 1050 || rate.BaseRatePerLDM != 120 {
		t.Errorf("unexpected rate row: %+v", rate)
	}
	if got := rate.SeasonalFactors["6"]; got != 1.05 {
		t.Errorf("seasonal[6] = %v, want 1.05 (JSON column decode)", got)
	}
	if got := s.Corrections().LDMRateCorrection(); got != 1.02 {
		t.Errorf("LDM rate correction = %v, want 1.02", got)
	}
	if c, ok := s.RegionCenter("DE_BERLIN"); !ok || c.Lat != 52.52 {
		t.Errorf("region center = %+v ok=%v", c, ok)
	}

	// Optional tables were absent and must come back empty, not as errors.
	if got := len(s.Ports()); got != 0 {
		t.Errorf("ports = %d, want 0", got)
	}
}

func TestLoadMissingMandatoryTable(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, regionsFile, "country_code,postal_code,region,place_name\n")
	writeFixture(t, dir, correctionsFile, `{}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing rate matrix")
	}
}
