package photon

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("missing required field")

// Outcome is the result of decoding a response body. It is one of Decoded,
// ServiceFailure or Malformed.
type Outcome interface {
	outcome()
}

// Decoded holds the features of a well formed response, in service order.
type Decoded struct {
	Features []Feature
}

// ServiceFailure is a response that did not carry features but did carry a
// message from the service.
type ServiceFailure struct {
	Message string
}

// Malformed is a response that was neither a feature collection nor a service
// message. Err is the error from the feature collection decode.
type Malformed struct {
	Err error
}

func (Decoded) outcome()        {}
func (ServiceFailure) outcome() {}
func (Malformed) outcome()      {}

// DecodeResponse makes one attempt at reading a feature collection and, if
// that fails, one attempt at reading a service message.
func DecodeResponse(body []byte) Outcome {
	features, err := decodeFeatures(body)
	if err == nil {
		return Decoded{Features: features}
	}

	var m struct {
		Message *string `json:"message"`
	}
	if jsonErr := json.Unmarshal(body, &m); jsonErr == nil && m.Message != nil {
		return ServiceFailure{Message: *m.Message}
	}

	return Malformed{Err: err}
}

func decodeFeatures(body []byte) ([]Feature, error) {
	var c rawFeatureCollection
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, err
	}

	if c.Features == nil {
		return nil, fmt.Errorf("%w: features", ErrMissingField)
	}

	raw := *c.Features
	features := make([]Feature, len(raw))
	for i := range raw {
		f, err := raw[i].toFeature()
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		features[i] = f
	}

	return features, nil
}
