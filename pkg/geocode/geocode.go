// Package geocode resolves a place name or a coordinate pair to a single best
// location. It hides which geocoder answers the question.
package geocode

import (
	"context"
	"errors"
)

var ErrNoResults = errors.New("no results")

type Client interface {
	Geocode(ctx context.Context, query string) (*Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Location, error)
}

type Location struct {
	Latitude    float64
	Longitude   float64
	Name        string
	City        string
	State       string
	Country     string
	CountryCode string
}
