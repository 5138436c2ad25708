package geocode

import (
	"context"
	"time"

	"github.com/codingsince1985/geo-golang"

	"github.com/manzanit0/photon/pkg/photon"
)

// PhotonGeocoder exposes a Photon searcher as a geo-golang geocoder. Like the
// other geo-golang implementations it returns nil without an error when
// nothing matches.
func PhotonGeocoder(s Searcher, timeout time.Duration) geo.Geocoder {
	return &photonGeocoder{s: s, timeout: timeout}
}

type photonGeocoder struct {
	s       Searcher
	timeout time.Duration
}

func (g *photonGeocoder) newContext() (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(context.Background())
	}

	return context.WithTimeout(context.Background(), g.timeout)
}

func (g *photonGeocoder) Geocode(address string) (*geo.Location, error) {
	ctx, cancel := g.newContext()
	defer cancel()

	features, err := g.s.ForwardSearch(ctx, address, &photon.ForwardFilter{Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return nil, nil
	}

	return &geo.Location{Lat: features[0].Coords.Lat, Lng: features[0].Coords.Lon}, nil
}

func (g *photonGeocoder) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	ctx, cancel := g.newContext()
	defer cancel()

	features, err := g.s.ReverseSearch(ctx, photon.NewLatLon(lat, lng), &photon.ReverseFilter{Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return nil, nil
	}

	f := features[0]
	return &geo.Address{
		FormattedAddress: DisplayName(&f),
		Street:           f.Street,
		HouseNumber:      f.HouseNumber,
		Suburb:           f.District,
		Postcode:         f.Postcode,
		State:            f.State,
		County:           f.County,
		Country:          f.Country,
		CountryCode:      f.CountryCode,
		City:             f.City,
	}, nil
}
