package client

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("no API key configured")

// StatusError reports a non-2xx response from an endpoint.
type StatusError struct {
	Endpoint   Endpoint
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s endpoint returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
