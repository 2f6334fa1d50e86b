package setup

import (
	"context"
	"io"

	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/llm/client"
	"github.com/papercomputeco/codestream/pkg/session"
)

// Open sends prompt and waits for the response headers, showing a spinner on
// status when it is an interactive terminal.
func Open(ctx context.Context, status io.Writer, sess *session.Session, prompt string) (*client.Stream, error) {
	if !IsTerminal(status) {
		return sess.Open(ctx, prompt)
	}

	var stream *client.Stream
	err := cliui.Step(status, "Connecting", func() (string, error) {
		var err error
		stream, err = sess.Open(ctx, prompt)
		if err != nil {
			return "", err
		}
		return "Streaming from " + string(stream.Endpoint), nil
	})
	return stream, err
}
