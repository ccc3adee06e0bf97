// Package mains infers the local electrical mains frequency from the
// system timezone. Field recordings commonly pick up hum at the mains
// fundamental and its harmonics; the spectral analyzer uses this value to
// report how much of a clip's energy sits there.
package mains

import (
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Mains frequencies in use worldwide.
const (
	Hz50 = 50.0
	Hz60 = 60.0
)

// Frequency returns the local mains frequency in Hz. Detection failures
// fall back to 50 Hz, the more common grid frequency globally.
func Frequency() float64 {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return Hz50
	}
	return FrequencyForTimezone(timezone)
}

// FrequencyForTimezone resolves an IANA timezone to its grid frequency.
func FrequencyForTimezone(timezone string) float64 {
	// UTC/GMT and Etc/ zones carry no country association.
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return Hz50
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return Hz50
	}
	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return Hz50
	}
	return frequencyForCountry(country)
}

func frequencyForCountry(country string) float64 {
	// Japan runs both grids; the 50 Hz Tokyo region is the most populous.
	if country == "Japan" {
		return Hz50
	}
	if hz60Countries[country] {
		return Hz60
	}
	return Hz50
}

// hz60Countries lists the countries on a 60 Hz grid; everywhere else is
// treated as 50 Hz. Source: https://en.wikipedia.org/wiki/Mains_electricity_by_country
var hz60Countries = map[string]bool{
	// Americas
	"United States":       true,
	"Canada":              true,
	"Mexico":              true,
	"Belize":              true,
	"Costa Rica":          true,
	"El Salvador":         true,
	"Guatemala":           true,
	"Honduras":            true,
	"Nicaragua":           true,
	"Panama":              true,
	"Bahamas":             true,
	"Barbados":            true,
	"Cayman Islands":      true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,
	"U.S. Virgin Islands": true,
	"Brazil":              true, // both grids exist; 60 Hz predominates
	"Colombia":            true,
	"Ecuador":             true,
	"Guyana":              true,
	"Peru":                true,
	"Suriname":            true,
	"Venezuela":           true,

	// Asia & Pacific
	"South Korea":      true,
	"Taiwan":           true,
	"Philippines":      true,
	"Saudi Arabia":     true,
	"Guam":             true,
	"American Samoa":   true,
	"Marshall Islands": true,
	"Micronesia":       true,
	"Palau":            true,
}
