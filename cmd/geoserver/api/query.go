package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/manzanit0/photon/pkg/photon"
)

// orderedQuery parses a raw query string keeping the order of the pairs,
// which url.ParseQuery loses.
func orderedQuery(raw string) ([]photon.QueryParam, error) {
	var params []photon.QueryParam
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("query key %q: %w", k, err)
		}

		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("query value for %q: %w", key, err)
		}

		params = append(params, photon.QueryParam{Key: key, Value: value})
	}

	return params, nil
}

type queryReader struct {
	params []photon.QueryParam
	known  map[string]bool
}

func newQueryReader(raw string, known ...string) (*queryReader, error) {
	params, err := orderedQuery(raw)
	if err != nil {
		return nil, err
	}

	r := &queryReader{params: params, known: map[string]bool{"format": true}}
	for _, k := range known {
		r.known[k] = true
	}

	return r, nil
}

func (r *queryReader) get(key string) string {
	for _, p := range r.params {
		if p.Key == key {
			return p.Value
		}
	}

	return ""
}

func (r *queryReader) float(key string) (*float64, error) {
	v := r.get(key)
	if v == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s must be a number", key)
	}

	return &f, nil
}

func (r *queryReader) uint(key string) (uint64, error) {
	v := r.get(key)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}

	return n, nil
}

func (r *queryReader) layers() ([]photon.Layer, error) {
	var layers []photon.Layer
	for _, p := range r.params {
		if p.Key != "layer" {
			continue
		}

		l, err := photon.ParseLayer(p.Value)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}

	return layers, nil
}

// extras returns every pair the server does not interpret, in request order.
func (r *queryReader) extras() []photon.QueryParam {
	var extras []photon.QueryParam
	for _, p := range r.params {
		if !r.known[p.Key] {
			extras = append(extras, p)
		}
	}

	return extras
}

func forwardFilterFromQuery(raw string) (string, *photon.ForwardFilter, error) {
	r, err := newQueryReader(raw, "q", "lat", "lon", "zoom", "location_bias_scale", "bbox", "limit", "lang", "layer")
	if err != nil {
		return "", nil, err
	}

	f := &photon.ForwardFilter{Language: r.get("lang"), AdditionalQuery: r.extras()}

	lat, err := r.float("lat")
	if err != nil {
		return "", nil, err
	}

	lon, err := r.float("lon")
	if err != nil {
		return "", nil, err
	}

	if (lat == nil) != (lon == nil) {
		return "", nil, fmt.Errorf("lat and lon must be given together")
	}

	if lat != nil {
		bias := &photon.LocationBias{Point: photon.NewLatLon(*lat, *lon)}

		if v := r.get("zoom"); v != "" {
			zoom, err := strconv.Atoi(v)
			if err != nil {
				return "", nil, fmt.Errorf("zoom must be an integer")
			}
			bias.Zoom = &zoom
		}

		if bias.Scale, err = r.float("location_bias_scale"); err != nil {
			return "", nil, err
		}

		f.LocationBias = bias
	} else if r.get("zoom") != "" || r.get("location_bias_scale") != "" {
		return "", nil, fmt.Errorf("zoom and location_bias_scale need lat and lon")
	}

	if v := r.get("bbox"); v != "" {
		bbox, err := photon.ParseBoundingBox(v)
		if err != nil {
			return "", nil, err
		}
		f.BoundingBox = &bbox
	}

	if f.Limit, err = r.uint("limit"); err != nil {
		return "", nil, err
	}

	if f.Layers, err = r.layers(); err != nil {
		return "", nil, err
	}

	return r.get("q"), f, nil
}

func reverseFilterFromQuery(raw string) (photon.LatLon, *photon.ReverseFilter, error) {
	r, err := newQueryReader(raw, "lat", "lon", "radius", "limit", "lang", "layer")
	if err != nil {
		return photon.LatLon{}, nil, err
	}

	lat, err := r.float("lat")
	if err != nil {
		return photon.LatLon{}, nil, err
	}

	lon, err := r.float("lon")
	if err != nil {
		return photon.LatLon{}, nil, err
	}

	if lat == nil || lon == nil {
		return photon.LatLon{}, nil, fmt.Errorf("lat and lon are required")
	}

	f := &photon.ReverseFilter{Language: r.get("lang"), AdditionalQuery: r.extras()}

	radius, err := r.float("radius")
	if err != nil {
		return photon.LatLon{}, nil, err
	}
	if radius != nil {
		if *radius < 0 {
			return photon.LatLon{}, nil, fmt.Errorf("radius must not be negative")
		}
		f.Radius = *radius
	}

	if f.Limit, err = r.uint("limit"); err != nil {
		return photon.LatLon{}, nil, err
	}

	if f.Layers, err = r.layers(); err != nil {
		return photon.LatLon{}, nil, err
	}

	return photon.NewLatLon(*lat, *lon), f, nil
}
