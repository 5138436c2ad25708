package photon

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func (l LatLon) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

func LatLonFromPoint(p orb.Point) LatLon {
	return LatLon{Lat: p.Lat(), Lon: p.Lon()}
}

func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: b.SouthWest.Point(), Max: b.NorthEast.Point()}
}

func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{SouthWest: LatLonFromPoint(b.Min), NorthEast: LatLonFromPoint(b.Max)}
}

// GeoJSON converts f back into a GeoJSON point feature using the property
// names of the Photon wire format.
func (f Feature) GeoJSON() *geojson.Feature {
	g := geojson.NewFeature(f.Coords.Point())

	g.Properties["osm_id"] = f.OsmID
	g.Properties["osm_type"] = f.OsmType.Code()
	g.Properties["osm_key"] = f.OsmKey
	g.Properties["osm_value"] = f.OsmValue
	g.Properties["type"] = f.Type

	if f.Extent != nil {
		g.Properties["extent"] = []float64{
			f.Extent.SouthWest.Lon, f.Extent.SouthWest.Lat,
			f.Extent.NorthEast.Lon, f.Extent.NorthEast.Lat,
		}
		g.BBox = geojson.NewBBox(f.Extent.Bound())
	}

	optional := map[string]string{
		"name":        f.Name,
		"country":     f.Country,
		"countrycode": f.CountryCode,
		"state":       f.State,
		"county":      f.County,
		"city":        f.City,
		"locality":    f.Locality,
		"postcode":    f.Postcode,
		"district":    f.District,
		"street":      f.Street,
		"housenumber": f.HouseNumber,
	}
	for k, v := range optional {
		if v != "" {
			g.Properties[k] = v
		}
	}

	return g
}

func FeatureCollection(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.GeoJSON())
	}

	return fc
}
