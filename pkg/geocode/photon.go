package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/manzanit0/photon/pkg/photon"
)

// Searcher is the subset of *photon.Client used here.
type Searcher interface {
	ForwardSearch(ctx context.Context, query string, filter *photon.ForwardFilter) ([]photon.Feature, error)
	ReverseSearch(ctx context.Context, coords photon.LatLon, filter *photon.ReverseFilter) ([]photon.Feature, error)
}

func NewPhotonClient(s Searcher, language string) *pc {
	return &pc{s: s, language: language}
}

type pc struct {
	s        Searcher
	language string
}

var _ Client = (*pc)(nil)

func (c *pc) Geocode(ctx context.Context, query string) (*Location, error) {
	features, err := c.s.ForwardSearch(ctx, query, &photon.ForwardFilter{Limit: 1, Language: c.language})
	if err != nil {
		return nil, fmt.Errorf("forward search: %w", err)
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("geocode %q: %w", query, ErrNoResults)
	}

	return MapFeature(&features[0]), nil
}

func (c *pc) ReverseGeocode(ctx context.Context, lat, lon float64) (*Location, error) {
	features, err := c.s.ReverseSearch(ctx, photon.NewLatLon(lat, lon), &photon.ReverseFilter{Limit: 1, Language: c.language})
	if err != nil {
		return nil, fmt.Errorf("reverse search: %w", err)
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, ErrNoResults)
	}

	loc := MapFeature(&features[0])
	loc.Latitude = lat
	loc.Longitude = lon

	return loc, nil
}

func MapFeature(f *photon.Feature) *Location {
	return &Location{
		Latitude:    f.Coords.Lat,
		Longitude:   f.Coords.Lon,
		Name:        DisplayName(f),
		City:        f.City,
		State:       f.State,
		Country:     f.Country,
		CountryCode: f.CountryCode,
	}
}

// DisplayName joins the known address parts of f from the most to the least
// specific, skipping the ones the service left out.
func DisplayName(f *photon.Feature) string {
	street := strings.TrimSpace(f.Street + " " + f.HouseNumber)
	city := strings.TrimSpace(f.Postcode + " " + f.City)

	var parts []string
	for _, p := range []string{f.Name, street, f.District, city, f.State, f.Country} {
		if p == "" {
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == p {
			continue
		}
		parts = append(parts, p)
	}

	return strings.Join(parts, ", ")
}
