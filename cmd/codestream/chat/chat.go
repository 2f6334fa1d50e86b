// Package chatcmder provides the chat command for an interactive conversation
// with streamed, highlighted responses.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/cmd/codestream/setup"
	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/dotdir"
	"github.com/papercomputeco/codestream/pkg/session"
)

const chatLongDesc string = `Start an interactive chat session.

Each response is rendered as it streams in. Fenced code blocks are
highlighted one line at a time, as soon as each line is complete.

By default the Responses endpoint is tried first and Chat Completions is
used when it fails. Use --endpoint to pin one of them.

Commands inside the session:
  /reset   Forget the conversation so far
  /exit    Leave (Ctrl+D works too)

Ctrl+C stops the response being streamed without leaving the session.
The conversation is saved on exit and can be resumed with --resume.

Examples:
  codestream chat
  codestream chat --model gpt-4.1 --resume
  codestream chat --base-url http://localhost:11434/v1 --endpoint chat_completions`

const chatShortDesc string = "Interactive chat with streamed, highlighted responses"

type chatCommander struct {
	opts   setup.ClientOptions
	resume bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.in = cmd.InOrStdin()
			cmder.out = setup.Output(cmd.OutOrStdout(), cmder.opts.ForceColor)
			cmder.errOut = cmd.ErrOrStderr()
			return cmder.run(cmd)
		},
	}

	cmder.opts.AddFlags(cmd)
	cmd.Flags().BoolVarP(&cmder.resume, "resume", "r", false, "Resume the last saved conversation")

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	env, err := setup.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	rt, err := c.opts.Build(env, cmd, c.out)
	if err != nil {
		return err
	}
	defer rt.Close()

	sess := session.New(rt.Client, rt.Pipeline,
		session.WithSystemPrompt(c.opts.System),
		session.WithLogger(env.Logger),
	)

	ddm := dotdir.NewManager()
	fmt.Fprintln(c.out)
	if c.resume {
		state, err := ddm.LoadSession(env.ConfigDir)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if state != nil {
			sess.Restore(state)
			fmt.Fprintf(c.out, "  %s Resuming %s\n",
				cliui.SuccessMark,
				cliui.DimStyle.Render(fmt.Sprintf("(%d messages, %s)", len(state.Messages), state.Model)),
			)
		}
	}
	if len(sess.Messages()) == 0 {
		fmt.Fprintf(c.out, "  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(rt.Model))
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset to start over, /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(c.out, cliui.UserPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit":
			return c.save(ddm, env.ConfigDir, sess, rt.Model, scanner.Err())
		case "/reset":
			sess.Reset()
			if err := ddm.ClearSession(env.ConfigDir); err != nil {
				env.Logger.Warn("could not clear saved session", "error", err)
			}
			fmt.Fprintf(c.out, "  %s Conversation cleared\n\n", cliui.SuccessMark)
			continue
		}

		if err := c.turn(cmd.Context(), sess, input); err != nil {
			fmt.Fprintf(c.errOut, "  %s %v\n\n", cliui.FailMark, err)
			continue
		}
		fmt.Fprint(c.out, "\n\n")
	}

	fmt.Fprintln(c.out)
	return c.save(ddm, env.ConfigDir, sess, rt.Model, scanner.Err())
}

// turn sends one prompt. Ctrl+C cancels only this response.
func (c *chatCommander) turn(parent context.Context, sess *session.Session, input string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	stream, err := setup.Open(ctx, c.errOut, sess, input)
	if err != nil {
		return err
	}

	fmt.Fprint(c.out, cliui.AssistantPrompt)
	_, err = sess.Render(ctx, stream)
	return err
}

func (c *chatCommander) save(ddm *dotdir.Manager, configDir string, sess *session.Session, model string, readErr error) error {
	if readErr != nil {
		return fmt.Errorf("reading input: %w", readErr)
	}
	if len(sess.Messages()) == 0 {
		return nil
	}
	if err := ddm.SaveSession(sess.Snapshot(model), configDir); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
