package photon

import "fmt"

// Feature is a single search result.
type Feature struct {
	Coords LatLon `json:"coords"`

	OsmID    uint64  `json:"osm_id"`
	OsmType  OsmType `json:"osm_type"`
	OsmKey   string  `json:"osm_key"`
	OsmValue string  `json:"osm_value"`
	Type     string  `json:"type"`

	Extent *BoundingBox `json:"extent,omitempty"`

	// The service omits address components it does not know about, in which
	// case the corresponding field is left empty.
	Name        string `json:"name,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	State       string `json:"state,omitempty"`
	County      string `json:"county,omitempty"`
	City        string `json:"city,omitempty"`
	Locality    string `json:"locality,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	District    string `json:"district,omitempty"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
}

type rawFeatureCollection struct {
	Features *[]rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string        `json:"type"`
	Geometry   rawGeometry   `json:"geometry"`
	Properties rawProperties `json:"properties"`
}

type rawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type rawProperties struct {
	OsmID    *uint64 `json:"osm_id"`
	OsmType  *string `json:"osm_type"`
	OsmKey   *string `json:"osm_key"`
	OsmValue *string `json:"osm_value"`
	Type     *string `json:"type"`

	Extent []float64 `json:"extent"`

	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
	State       string `json:"state"`
	County      string `json:"county"`
	City        string `json:"city"`
	Locality    string `json:"locality"`
	Postcode    string `json:"postcode"`
	District    string `json:"district"`
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
}

func (r rawFeature) toFeature() (Feature, error) {
	p := r.Properties
	if err := p.checkRequired(); err != nil {
		return Feature{}, err
	}

	coords, err := latLonFromSlice(r.Geometry.Coordinates)
	if err != nil {
		return Feature{}, fmt.Errorf("geometry: %w", err)
	}

	osmType, err := ParseOsmType(*p.OsmType)
	if err != nil {
		return Feature{}, err
	}

	var extent *BoundingBox
	if p.Extent != nil {
		b, err := BoundingBoxFromSlice(p.Extent)
		if err != nil {
			return Feature{}, fmt.Errorf("extent: %w", err)
		}
		extent = &b
	}

	return Feature{
		Coords:      coords,
		OsmID:       *p.OsmID,
		OsmType:     osmType,
		OsmKey:      *p.OsmKey,
		OsmValue:    *p.OsmValue,
		Type:        *p.Type,
		Extent:      extent,
		Name:        p.Name,
		Country:     p.Country,
		CountryCode: p.CountryCode,
		State:       p.State,
		County:      p.County,
		City:        p.City,
		Locality:    p.Locality,
		Postcode:    p.Postcode,
		District:    p.District,
		Street:      p.Street,
		HouseNumber: p.HouseNumber,
	}, nil
}

func (p rawProperties) checkRequired() error {
	switch {
	case p.OsmID == nil:
		return fmt.Errorf("%w: osm_id", ErrMissingField)
	case p.OsmType == nil:
		return fmt.Errorf("%w: osm_type", ErrMissingField)
	case p.OsmKey == nil:
		return fmt.Errorf("%w: osm_key", ErrMissingField)
	case p.OsmValue == nil:
		return fmt.Errorf("%w: osm_value", ErrMissingField)
	case p.Type == nil:
		return fmt.Errorf("%w: type", ErrMissingField)
	}

	return nil
}
