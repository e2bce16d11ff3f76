package refdata

import (
	"sort"
	"strings"
	"time"

	"freightrate/internal/types"
)

// Tables carries every parsed reference table. Loaders build it from flat
// files; tests construct it directly.
type Tables struct {
	Regions           []RegionRow
	RouteRates        []RouteRate
	Corrections       CorrectionFactors
	RegionCenters     map[string]RegionCenter
	Ports             []Port
	ContainerRates    []ContainerRate
	FuelSurcharges    []FuelSurcharge
	EcoCharges        []EcoCharge
	SeasonalQuarters  []SeasonalQuarterFactor
	CongestionCharges []CongestionCharge
	CrisisWindows     []CrisisWindow
	FreightIndices    []FreightIndex
	RouteIndexWeights []RouteIndexWeight
	CountryRates      []CountryRate
	BackhaulParams    []BackhaulParam
	CityRates         []CityRate
}

// Store is the read-only lookup view over Tables. It is safe for concurrent
// use; nothing in it mutates after New returns.
type Store struct {
	regions     map[string]RegionRow
	regionKeys  []string // sorted, for deterministic prefix scans
	routeRates  map[routeKey]RouteRate
	corrections CorrectionFactors
	centers     map[string]RegionCenter

	ports          map[string]Port
	portList       []Port
	containerRates map[containerKey]ContainerRate
	fuelSurcharges map[routeKey]FuelSurcharge
	ecoCharges     map[ecoKey]float64
	seasonal       map[seasonKey]float64
	congestion     map[string][]CongestionCharge
	crisis         map[routeKey][]CrisisWindow
	indices        map[string]FreightIndex
	indexList      []FreightIndex
	routeWeights   map[string]map[string]float64
	countryRates   map[string]CountryRate
	backhaul       map[string]BackhaulParam
	cityRates      map[cityKey]CityRate
}

type routeKey struct{ from, to string }
type containerKey struct{ from, to, container string }
type ecoKey struct{ region, charge, container string }
type seasonKey struct{ from, to, quarter string }
type cityKey struct{ country, city string }

// RegionKey builds the lookup key the region table is indexed by.
func RegionKey(countryCode, postalCode string) string {
	return countryCode + "_" + postalCode
}

func New(t Tables) *Store {
	s := &Store{
		regions:        make(map[string]RegionRow, len(t.Regions)),
		routeRates:     make(map[routeKey]RouteRate, len(t.RouteRates)),
		corrections:    t.Corrections,
		centers:        t.RegionCenters,
		ports:          make(map[string]Port, len(t.Ports)),
		containerRates: make(map[containerKey]ContainerRate, len(t.ContainerRates)),
		fuelSurcharges: make(map[routeKey]FuelSurcharge, len(t.FuelSurcharges)),
		ecoCharges:     make(map[ecoKey]float64, len(t.EcoCharges)),
		seasonal:       make(map[seasonKey]float64, len(t.SeasonalQuarters)),
		congestion:     make(map[string][]CongestionCharge),
		crisis:         make(map[routeKey][]CrisisWindow),
		indices:        make(map[string]FreightIndex, len(t.FreightIndices)),
		routeWeights:   make(map[string]map[string]float64),
		countryRates:   make(map[string]CountryRate, len(t.CountryRates)),
		backhaul:       make(map[string]BackhaulParam, len(t.BackhaulParams)),
		cityRates:      make(map[cityKey]CityRate, len(t.CityRates)),
	}

	for _, r := range t.Regions {
		key := RegionKey(r.CountryCode, r.PostalCode)
		s.regions[key] = r
		s.regionKeys = append(s.regionKeys, key)
	}
	sort.Strings(s.regionKeys)

	for _, r := range t.RouteRates {
		s.routeRates[routeKey{r.FromRegion, r.ToRegion}] = r
	}
	for _, p := range t.Ports {
		s.ports[p.ID] = p
	}
	s.portList = append(s.portList, t.Ports...)
	sort.Slice(s.portList, func(i, j int) bool {
		if s.portList[i].Region != s.portList[j].Region {
			return s.portList[i].Region < s.portList[j].Region
		}
		return s.portList[i].Name < s.portList[j].Name
	})

	for _, r := range t.ContainerRates {
		s.containerRates[containerKey{r.OriginRegion, r.DestinationRegion, r.ContainerType}] = r
	}
	for _, f := range t.FuelSurcharges {
		s.fuelSurcharges[routeKey{f.OriginRegion, f.DestinationRegion}] = f
	}
	for _, e := range t.EcoCharges {
		s.ecoCharges[ecoKey{e.Region, e.ChargeType, e.ContainerType}] = e.Amount
	}
	for _, f := range t.SeasonalQuarters {
		s.seasonal[seasonKey{f.OriginRegion, f.DestinationRegion, f.Quarter}] = f.Factor
	}
	for _, c := range t.CongestionCharges {
		s.congestion[c.PortID] = append(s.congestion[c.PortID], c)
	}
	// Severity levels are scanned in a fixed order, so keep them sorted.
	for id := range s.congestion {
		levels := s.congestion[id]
		sort.Slice(levels, func(i, j int) bool {
			return levels[i].CongestionLevel < levels[j].CongestionLevel
		})
	}
	for _, w := range t.CrisisWindows {
		parts := strings.SplitN(w.RegionPair, "-", 2)
		if len(parts) != 2 {
			continue
		}
		key := routeKey{parts[0], parts[1]}
		s.crisis[key] = append(s.crisis[key], w)
	}
	for _, i := range t.FreightIndices {
		s.indices[i.Name] = i
	}
	s.indexList = append(s.indexList, t.FreightIndices...)
	sort.Slice(s.indexList, func(i, j int) bool {
		return s.indexList[i].DefaultWeight > s.indexList[j].DefaultWeight
	})
	for _, w := range t.RouteIndexWeights {
		m := s.routeWeights[w.Route]
		if m == nil {
			m = make(map[string]float64)
			s.routeWeights[w.Route] = m
		}
		m[w.IndexName] = w.Weight
	}
	for _, r := range t.CountryRates {
		s.countryRates[r.CountryCode] = r
	}
	for _, b := range t.BackhaulParams {
		s.backhaul[b.CountryCode] = b
	}
	for _, c := range t.CityRates {
		s.cityRates[cityKey{c.CountryCode, c.City}] = c
	}
	return s
}

// Region returns the exact region row for a prebuilt key.
func (s *Store) Region(key string) (RegionRow, bool) {
	r, ok := s.regions[key]
	return r, ok
}

// FirstRegionWithPrefix returns the lexicographically first region row whose
// key starts with prefix. Scans run over the sorted key index so repeated
// resolutions are deterministic.
func (s *Store) FirstRegionWithPrefix(prefix string) (RegionRow, bool) {
	i := sort.SearchStrings(s.regionKeys, prefix)
	if i < len(s.regionKeys) && strings.HasPrefix(s.regionKeys[i], prefix) {
		return s.regions[s.regionKeys[i]], true
	}
	return RegionRow{}, false
}

// RouteRate returns the tariff row for the ordered region pair.
func (s *Store) RouteRate(fromRegion, toRegion string) (RouteRate, bool) {
	r, ok := s.routeRates[routeKey{fromRegion, toRegion}]
	return r, ok
}

// Corrections returns the correction factor set.
func (s *Store) Corrections() CorrectionFactors { return s.corrections }

// RegionCenter returns the representative center coordinate of a region.
func (s *Store) RegionCenter(region string) (types.Coordinate, bool) {
	c, ok := s.centers[region]
	if !ok {
		return types.Coordinate{}, false
	}
	return types.Coordinate{Lat: c.CenterLat, Lng: c.CenterLng}, true
}

// Port returns one port by ID.
func (s *Store) Port(id string) (Port, bool) {
	p, ok := s.ports[id]
	return p, ok
}

// Ports lists the registry sorted by region then name.
func (s *Store) Ports() []Port { return s.portList }

// ContainerRate returns the ocean base rate row.
func (s *Store) ContainerRate(originRegion, destinationRegion, containerType string) (ContainerRate, bool) {
	r, ok := s.containerRates[containerKey{originRegion, destinationRegion, containerType}]
	return r, ok
}

// FuelSurcharge returns the fuel percentage band for a region pair.
func (s *Store) FuelSurcharge(originRegion, destinationRegion string) (FuelSurcharge, bool) {
	f, ok := s.fuelSurcharges[routeKey{originRegion, destinationRegion}]
	return f, ok
}

// EcoCharge returns the fixed ecological charge amount, if configured.
func (s *Store) EcoCharge(region, chargeType, containerType string) (float64, bool) {
	a, ok := s.ecoCharges[ecoKey{region, chargeType, containerType}]
	return a, ok
}

// SeasonalQuarterFactor returns the quarterly factor for a region pair.
func (s *Store) SeasonalQuarterFactor(originRegion, destinationRegion, quarter string) (float64, bool) {
	f, ok := s.seasonal[seasonKey{originRegion, destinationRegion, quarter}]
	return f, ok
}

// CongestionCharge returns the first severity level charge configured for
// the port and container type.
func (s *Store) CongestionCharge(portID, containerType string) (level string, amount float64, ok bool) {
	for _, c := range s.congestion[portID] {
		if c.ContainerType == containerType {
			return c.CongestionLevel, c.Amount, true
		}
	}
	return "", 0, false
}

// CrisisMultiplier returns the maximum multiplier among windows active at
// the given time for the region pair, 1.0 when none is active.
func (s *Store) CrisisMultiplier(originRegion, destinationRegion string, at time.Time) float64 {
	multiplier := 1.0
	active := false
	for _, w := range s.crisis[routeKey{originRegion, destinationRegion}] {
		if !w.Active(at) {
			continue
		}
		if !active || w.Multiplier > multiplier {
			multiplier = w.Multiplier
		}
		active = true
	}
	return multiplier
}

// Indices lists the freight indices sorted by default weight, descending.
func (s *Store) Indices() []FreightIndex { return s.indexList }

// IndexWeights returns the route-specific index weight overrides for an
// exact route key.
func (s *Store) IndexWeights(route string) (map[string]float64, bool) {
	m, ok := s.routeWeights[route]
	return m, ok
}

// CountryRate returns the overland first-leg tariff for a country.
func (s *Store) CountryRate(countryCode string) (CountryRate, bool) {
	r, ok := s.countryRates[countryCode]
	return r, ok
}

// Backhaul returns the backhaul parameters for a country.
func (s *Store) Backhaul(countryCode string) (BackhaulParam, bool) {
	b, ok := s.backhaul[countryCode]
	return b, ok
}

// CityRate returns the second-leg tariff for a destination country and city.
func (s *Store) CityRate(countryCode, city string) (CityRate, bool) {
	r, ok := s.cityRates[cityKey{countryCode, city}]
	return r, ok
}
