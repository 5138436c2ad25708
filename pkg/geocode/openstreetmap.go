package geocode

import (
	"context"
	"fmt"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// NewOpenstreetmapClient answers through Nominatim instead of Photon.
func NewOpenstreetmapClient() *gc {
	return NewGeoClient(openstreetmap.Geocoder())
}

// NewGeoClient wraps any geo-golang geocoder, including the one returned by
// PhotonGeocoder.
func NewGeoClient(g geo.Geocoder) *gc {
	return &gc{geocoder: g}
}

type gc struct {
	geocoder geo.Geocoder
}

var _ Client = (*gc)(nil)

// Geocode ignores ctx: geo-golang geocoders have no context support.
func (c *gc) Geocode(_ context.Context, query string) (*Location, error) {
	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, err
	}

	if location == nil {
		return nil, fmt.Errorf("geocode %q: %w", query, ErrNoResults)
	}

	address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng)
	if err != nil {
		return nil, err
	}

	loc := &Location{Latitude: location.Lat, Longitude: location.Lng, Name: query}
	if address != nil {
		loc.City = address.City
		loc.State = address.State
		loc.Country = address.Country
		loc.CountryCode = address.CountryCode
	}

	return loc, nil
}

func (c *gc) ReverseGeocode(_ context.Context, lat, lon float64) (*Location, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return nil, fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, ErrNoResults)
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		Name:        address.FormattedAddress,
		City:        address.City,
		State:       address.State,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}
