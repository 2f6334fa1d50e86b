// Package rendercmder provides the render command, which highlights the
// fenced code blocks of a local Markdown file the same way streamed
// responses are.
package rendercmder

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/cmd/codestream/setup"
)

const renderLongDesc string = `Render a Markdown file or stdin to the terminal.

Fenced code blocks are syntax highlighted and their fence lines removed.
Everything else is written unchanged. When stdout is not a terminal, ANSI
escapes are stripped unless --force-color is given.

Examples:
  codestream render README.md
  cat answer.md | codestream render
  codestream render --color-profile ansi256 notes.md`

const renderShortDesc string = "Highlight the code blocks of a Markdown file"

type renderCommander struct {
	opts setup.RenderOptions
}

func NewRenderCmd() *cobra.Command {
	cmder := &renderCommander{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: renderShortDesc,
		Long:  renderLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	cmder.opts.AddFlags(cmd)

	return cmd
}

func (c *renderCommander) run(cmd *cobra.Command, args []string) error {
	env, err := setup.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	pipeline, err := c.opts.Pipeline(env, cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return pipeline.RenderMarkdown(in)
}
