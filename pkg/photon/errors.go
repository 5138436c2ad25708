package photon

import "fmt"

// ServiceError is returned when the service answered with a message instead
// of a feature collection.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// DecodeError is returned when the response body matched neither the feature
// collection shape nor the service message shape.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("photon: decode response (status %d): %s", e.StatusCode, e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
