// Package geocode resolves coordinates into place names through a reverse
// geocoding service.
package geocode

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrTimedOut reports that the service did not answer in time. Lookups
	// failing this way are retried by Locator.
	ErrTimedOut = errors.New("geocoder timed out")
	// ErrUnavailable reports that the service could not be reached or is down.
	ErrUnavailable = errors.New("geocoder unavailable")
	// ErrService reports any other failure of the service, such as a rejected
	// request or an unreadable answer.
	ErrService = errors.New("geocoder error")
)

// Reverser looks up the location at a coordinate. A nil Location with a nil
// error means the service knows nothing at that point.
type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// ReverserFunc adapts a function to Reverser.
type ReverserFunc func(ctx context.Context, lat, lon float64) (*Location, error)

// Reverse calls f.
func (f ReverserFunc) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	return f(ctx, lat, lon)
}

// Location is the best match for a reverse lookup.
type Location struct {
	DisplayName string  `json:"display_name,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Address     Address `json:"address"`
}

// Address holds the address parts the service returned. Missing parts are empty.
type Address struct {
	City         string `json:"city,omitempty"`
	Town         string `json:"town,omitempty"`
	Village      string `json:"village,omitempty"`
	Hamlet       string `json:"hamlet,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	County       string `json:"county,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Road         string `json:"road,omitempty"`
	HouseNumber  string `json:"house_number,omitempty"`
}

// PlaceName returns the city, else the town, else the village.
func (a Address) PlaceName() (string, bool) {
	for _, name := range []string{a.City, a.Town, a.Village} {
		if name != "" {
			return name, true
		}
	}
	return "", false
}
