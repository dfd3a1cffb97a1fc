package mockapi

import (
	"errors"
	"fmt"
)

// Kind classifies simulated API failures.
type Kind string

const (
	KindNetworkUnavailable Kind = "network_unavailable"
	KindSimulatedNetwork   Kind = "simulated_network_error"
	KindEndpointNotFound   Kind = "endpoint_not_found"
)

var (
	ErrNetworkUnavailable = errors.New("mockapi: no network connection")
	ErrSimulatedNetwork   = errors.New("mockapi: simulated network error")
	ErrEndpointNotFound   = errors.New("mockapi: endpoint not found")
	ErrUnknownPreset      = errors.New("mockapi: unknown network preset")
)

// Error is returned for every simulated failure. It unwraps to the sentinel
// matching its Kind.
type Error struct {
	Kind     Kind
	Endpoint string
	Status   int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s, status %d)", e.sentinel().Error(), e.Endpoint, e.Status)
}

func (e *Error) Unwrap() error {
	return e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNetworkUnavailable:
		return ErrNetworkUnavailable
	case KindSimulatedNetwork:
		return ErrSimulatedNetwork
	default:
		return ErrEndpointNotFound
	}
}

// IsTransient reports whether retrying the same call may succeed.
func IsTransient(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind != KindEndpointNotFound
}

func newError(kind Kind, endpoint string) *Error {
	status := 0
	switch kind {
	case KindSimulatedNetwork:
		status = 500
	case KindEndpointNotFound:
		status = 404
	}
	return &Error{Kind: kind, Endpoint: endpoint, Status: status}
}
