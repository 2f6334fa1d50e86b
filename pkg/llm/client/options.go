package client

import (
	"log/slog"
	"net/http"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing and fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the HTTP client. The configured timeout is not
// applied to a caller supplied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}
