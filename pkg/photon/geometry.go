package photon

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrShortCoordinates = errors.New("coordinate array needs at least 2 elements")
	ErrShortBoundingBox = errors.New("bounding box array needs at least 4 elements")
	ErrUnknownOsmType   = errors.New("unknown osm type")
	ErrUnknownLayer     = errors.New("unknown layer")
)

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewLatLon(lat, lon float64) LatLon {
	return LatLon{Lat: lat, Lon: lon}
}

// latLonFromSlice reads a wire pair, which Photon sends as [lon, lat].
func latLonFromSlice(s []float64) (LatLon, error) {
	if len(s) < 2 {
		return LatLon{}, fmt.Errorf("%w: got %d", ErrShortCoordinates, len(s))
	}

	return LatLon{Lat: s[1], Lon: s[0]}, nil
}

type BoundingBox struct {
	SouthWest LatLon `json:"south_west"`
	NorthEast LatLon `json:"north_east"`
}

// BoundingBoxFromSlice builds a box from [sw-lon, sw-lat, ne-lon, ne-lat].
func BoundingBoxFromSlice(s []float64) (BoundingBox, error) {
	if len(s) < 4 {
		return BoundingBox{}, fmt.Errorf("%w: got %d", ErrShortBoundingBox, len(s))
	}

	sw, err := latLonFromSlice(s[0:2])
	if err != nil {
		return BoundingBox{}, err
	}

	ne, err := latLonFromSlice(s[2:4])
	if err != nil {
		return BoundingBox{}, err
	}

	return BoundingBox{SouthWest: sw, NorthEast: ne}, nil
}

// String returns the box in the same order the service expects for the bbox
// parameter.
func (b BoundingBox) String() string {
	return strings.Join([]string{
		formatFloat(b.SouthWest.Lon),
		formatFloat(b.SouthWest.Lat),
		formatFloat(b.NorthEast.Lon),
		formatFloat(b.NorthEast.Lat),
	}, ",")
}

// ParseBoundingBox is the inverse of BoundingBox.String.
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox %q: expected 4 comma separated values", s)
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		values[i] = f
	}

	return BoundingBoxFromSlice(values)
}

type OsmType int

const (
	OsmRelation OsmType = iota + 1
	OsmWay
	OsmNode
)

func ParseOsmType(code string) (OsmType, error) {
	switch code {
	case "R":
		return OsmRelation, nil
	case "W":
		return OsmWay, nil
	case "N":
		return OsmNode, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOsmType, code)
	}
}

// Code is the single letter the service uses on the wire.
func (t OsmType) Code() string {
	switch t {
	case OsmRelation:
		return "R"
	case OsmWay:
		return "W"
	case OsmNode:
		return "N"
	default:
		return ""
	}
}

func (t OsmType) String() string {
	switch t {
	case OsmRelation:
		return "relation"
	case OsmWay:
		return "way"
	case OsmNode:
		return "node"
	default:
		return "unknown"
	}
}

func (t OsmType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts both the long name and the wire code.
func (t *OsmType) UnmarshalText(b []byte) error {
	switch s := string(b); s {
	case "relation":
		*t = OsmRelation
	case "way":
		*t = OsmWay
	case "node":
		*t = OsmNode
	default:
		v, err := ParseOsmType(s)
		if err != nil {
			return err
		}
		*t = v
	}

	return nil
}

type Layer string

const (
	LayerHouse    Layer = "house"
	LayerStreet   Layer = "street"
	LayerLocality Layer = "locality"
	LayerDistrict Layer = "district"
	LayerCity     Layer = "city"
	LayerCounty   Layer = "county"
	LayerState    Layer = "state"
	LayerCountry  Layer = "country"
)

var layers = []Layer{
	LayerHouse,
	LayerStreet,
	LayerLocality,
	LayerDistrict,
	LayerCity,
	LayerCounty,
	LayerState,
	LayerCountry,
}

func ParseLayer(s string) (Layer, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range layers {
		if string(l) == s {
			return l, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
