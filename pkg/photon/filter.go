package photon

import (
	"net/url"
	"strconv"
	"strings"
)

type QueryParam struct {
	Key   string
	Value string
}

// LocationBias ranks results near Point higher without excluding others.
// Zoom and Scale refine the bias and are only sent along with Point.
type LocationBias struct {
	Point LatLon
	Zoom  *int
	Scale *float64
}

// ForwardFilter narrows a forward search. The zero value sends nothing.
type ForwardFilter struct {
	LocationBias *LocationBias
	BoundingBox  *BoundingBox
	Limit        uint64
	Language     string
	Layers       []Layer

	// AdditionalQuery is appended as is, after every other parameter.
	AdditionalQuery []QueryParam
}

// Params returns the query parameters for the filter. Unset fields are
// skipped and the order is stable.
func (f ForwardFilter) Params() []QueryParam {
	var params []QueryParam

	if f.LocationBias != nil {
		b := f.LocationBias
		params = append(params,
			QueryParam{"lat", formatFloat(b.Point.Lat)},
			QueryParam{"lon", formatFloat(b.Point.Lon)},
		)
		if b.Zoom != nil {
			params = append(params, QueryParam{"zoom", strconv.Itoa(*b.Zoom)})
		}
		if b.Scale != nil {
			params = append(params, QueryParam{"location_bias_scale", formatFloat(*b.Scale)})
		}
	}

	if f.BoundingBox != nil {
		params = append(params, QueryParam{"bbox", f.BoundingBox.String()})
	}

	return appendCommon(params, f.Limit, f.Language, f.Layers, f.AdditionalQuery)
}

// ReverseFilter narrows a reverse search. The zero value sends nothing.
type ReverseFilter struct {
	// Radius is in kilometers.
	Radius   float64
	Limit    uint64
	Language string
	Layers   []Layer

	AdditionalQuery []QueryParam
}

func (f ReverseFilter) Params() []QueryParam {
	var params []QueryParam

	if f.Radius > 0 {
		params = append(params, QueryParam{"radius", formatFloat(f.Radius)})
	}

	return appendCommon(params, f.Limit, f.Language, f.Layers, f.AdditionalQuery)
}

func appendCommon(params []QueryParam, limit uint64, lang string, layers []Layer, extra []QueryParam) []QueryParam {
	if limit > 0 {
		params = append(params, QueryParam{"limit", strconv.FormatUint(limit, 10)})
	}

	if lang != "" {
		params = append(params, QueryParam{"lang", strings.ToLower(lang)})
	}

	for _, l := range layers {
		params = append(params, QueryParam{"layer", string(l)})
	}

	return append(params, extra...)
}

// encodeQuery percent-encodes params keeping their order, which
// url.Values.Encode would not.
func encodeQuery(params []QueryParam) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}

	return sb.String()
}
