// README: Location resolver maps (country, postal code) to a rate region.
package location

import (
	"fmt"

	"freightrate/internal/engine"
	"freightrate/internal/refdata"
)

type Resolver struct {
	data *refdata.Store
}

func NewResolver(data *refdata.Store) *Resolver {
	return &Resolver{data: data}
}

// Resolve maps a (country, postal code) pair to its region and place name.
// Exact match first; on a miss the postal code is shortened from the right
// one character at a time and the longest stored prefix wins. Matches within
// one prefix length are taken in sorted key order, so resolution is
// deterministic and idempotent.
func (r *Resolver) Resolve(countryCode, postalCode string) (Location, error) {
	if row, ok := r.data.Region(refdata.RegionKey(countryCode, postalCode)); ok {
		return fromRow(row, countryCode, postalCode), nil
	}

	for i := len(postalCode) - 1; i >= 1; i-- {
		prefix := refdata.RegionKey(countryCode, postalCode[:i])
		if row, ok := r.data.FirstRegionWithPrefix(prefix); ok {
			return fromRow(row, countryCode, postalCode), nil
		}
	}

	return Location{}, fmt.Errorf("%w: no region for %s %s", engine.ErrNotFound, countryCode, postalCode)
}

func fromRow(row refdata.RegionRow, countryCode, postalCode string) Location {
	return Location{
		CountryCode: countryCode,
		PostalCode:  postalCode,
		Region:      row.Region,
		PlaceName:   row.PlaceName,
	}
}
