// README: Resolved shipment endpoint; region and place are fixed once resolved.
package location

import "fmt"

type Location struct {
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code"`
	Region      string `json:"region"`
	PlaceName   string `json:"place_name"`
}

// Address composes the normalized free-text address geocoding keys off.
func (l Location) Address() string {
	return fmt.Sprintf("%s, %s, %s", l.PostalCode, l.PlaceName, l.CountryCode)
}
