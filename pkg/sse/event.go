// Package sse decodes the server-sent-events framing used by OpenAI-compatible
// streaming endpoints into protocol events.
//
// The decoder works line by line rather than frame by frame: blank separator
// lines are tolerated but never required, "event:" lines are dropped because
// nothing downstream branches on the event type, and only "data:" payloads are
// surfaced. A "[DONE]" payload terminates the sequence.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "encoding/json"

// DoneSentinel is the data payload upstream services send to signal the end of
// a stream.
const DoneSentinel = "[DONE]"

// Event is one decoded protocol event: either a data payload or the
// termination signal.
type Event struct {
	// Data is the JSON payload carried by a "data:" line. It is always valid
	// JSON when Done is false.
	Data json.RawMessage

	// Done reports that the upstream sent the termination sentinel. No
	// further events follow a Done event.
	Done bool
}
