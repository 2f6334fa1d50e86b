// Package askcmder provides the ask command for a single question and a
// streamed, highlighted answer.
package askcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/cmd/codestream/setup"
	"github.com/papercomputeco/codestream/pkg/session"
)

const askLongDesc string = `Ask a single question and stream the answer.

The prompt is taken from the arguments, or read from stdin when no
arguments are given. Nothing is saved between invocations.

Examples:
  codestream ask "write a bash loop over files"
  git diff | codestream ask --system "review this diff"
  codestream ask --no-highlight "explain goroutines" > answer.md`

const askShortDesc string = "Ask a single question"

type askCommander struct {
	opts setup.ClientOptions
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: askShortDesc,
		Long:  askLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	cmder.opts.AddFlags(cmd)

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	env, err := setup.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	out := cmd.OutOrStdout()
	rt, err := c.opts.Build(env, cmd, out)
	if err != nil {
		return err
	}
	defer rt.Close()

	sess := session.New(rt.Client, rt.Pipeline,
		session.WithSystemPrompt(c.opts.System),
		session.WithLogger(env.Logger),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	stream, err := setup.Open(ctx, cmd.ErrOrStderr(), sess, prompt)
	if err != nil {
		return err
	}

	text, err := sess.Render(ctx, stream)
	if text != "" && !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
	return err
}

// readPrompt joins args, or reads all of stdin when there are none.
func readPrompt(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			return "", setup.ErrEmptyPrompt
		}
		return prompt, nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", setup.ErrEmptyPrompt
	}
	return prompt, nil
}
