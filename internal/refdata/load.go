package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
)

// File names under the data directory. The region table, rate matrix and
// correction factors are mandatory; every other table degrades to empty.
const (
	regionsFile     = "regions.csv"
	routeRatesFile  = "route_rates.csv"
	correctionsFile = "correction_factors.json"
	centersFile     = "region_centers.json"
	portsFile       = "ports.csv"
	containerFile   = "container_rates.csv"
	fuelFile        = "fuel_surcharges.csv"
	ecoFile         = "ecological_charges.csv"
	seasonalFile    = "seasonal_factors.csv"
	congestionFile  = "port_congestion.csv"
	crisisFile      = "crisis_windows.csv"
	indicesFile     = "freight_indices.csv"
	routeWeightFile = "route_index_weights.csv"
	countryRateFile = "country_rates.csv"
	backhaulFile    = "backhaul_params.csv"
	cityRatesFile   = "city_rates.csv"
)

// Load reads every reference table from dir and builds the lookup store.
func Load(dir string) (*Store, error) {
	var t Tables
	var err error

	if t.Regions, err = readCSV[RegionRow](filepath.Join(dir, regionsFile), true); err != nil {
		return nil, err
	}
	if t.RouteRates, err = readCSV[RouteRate](filepath.Join(dir, routeRatesFile), true); err != nil {
		return nil, err
	}
	if err = readJSON(filepath.Join(dir, correctionsFile), &t.Corrections, true); err != nil {
		return nil, err
	}
	if err = readJSON(filepath.Join(dir, centersFile), &t.RegionCenters, false); err != nil {
		return nil, err
	}
	if t.Ports, err = readCSV[Port](filepath.Join(dir, portsFile), false); err != nil {
		return nil, err
	}
	if t.ContainerRates, err = readCSV[ContainerRate](filepath.Join(dir, containerFile), false); err != nil {
		return nil, err
	}
	if t.FuelSurcharges, err = readCSV[FuelSurcharge](filepath.Join(dir, fuelFile), false); err != nil {
		return nil, err
	}
	if t.EcoCharges, err = readCSV[EcoCharge](filepath.Join(dir, ecoFile), false); err != nil {
		return nil, err
	}
	if t.SeasonalQuarters, err = readCSV[SeasonalQuarterFactor](filepath.Join(dir, seasonalFile), false); err != nil {
		return nil, err
	}
	if t.CongestionCharges, err = readCSV[CongestionCharge](filepath.Join(dir, congestionFile), false); err != nil {
		return nil, err
	}
	if t.CrisisWindows, err = readCSV[CrisisWindow](filepath.Join(dir, crisisFile), false); err != nil {
		return nil, err
	}
	if t.FreightIndices, err = readCSV[FreightIndex](filepath.Join(dir, indicesFile), false); err != nil {
		return nil, err
	}
	if t.RouteIndexWeights, err = readCSV[RouteIndexWeight](filepath.Join(dir, routeWeightFile), false); err != nil {
		return nil, err
	}
	if t.CountryRates, err = readCSV[CountryRate](filepath.Join(dir, countryRateFile), false); err != nil {
		return nil, err
	}
	if t.BackhaulParams, err = readCSV[BackhaulParam](filepath.Join(dir, backhaulFile), false); err != nil {
		return nil, err
	}
	if t.CityRates, err = readCSV[CityRate](filepath.Join(dir, cityRatesFile), false); err != nil {
		return nil, err
	}

	return New(t), nil
}

func readCSV[T any](path string, required bool) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rows []T
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func readJSON(path string, v any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
