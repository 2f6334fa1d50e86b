package llm

import "errors"

// ErrInvalidPayload is returned when a streaming event payload is not valid
// JSON.
var ErrInvalidPayload = errors.New("stream payload is not valid JSON")

// StreamChunk is the normalized content of one streaming event, after the
// provider-specific payload has been parsed.
type StreamChunk struct {
	// Text is the incremental assistant text carried by the event. It may be
	// empty for events that only carry metadata.
	Text string `json:"text"`

	// Done reports that the event marks the end of the response.
	Done bool `json:"done"`

	// StopReason is set on the final chunk by providers that report one.
	StopReason string `json:"stop_reason,omitempty"`
}
