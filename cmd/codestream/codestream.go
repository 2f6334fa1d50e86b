// Package codestreamcmder is the root of the codestream command tree.
package codestreamcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/codestream/cmd/codestream/ask"
	authcmder "github.com/papercomputeco/codestream/cmd/codestream/auth"
	chatcmder "github.com/papercomputeco/codestream/cmd/codestream/chat"
	configcmder "github.com/papercomputeco/codestream/cmd/codestream/config"
	initcmder "github.com/papercomputeco/codestream/cmd/codestream/init"
	rendercmder "github.com/papercomputeco/codestream/cmd/codestream/render"
	versioncmder "github.com/papercomputeco/codestream/cmd/version"
)

const codestreamLongDesc string = `codestream is a terminal chat client for OpenAI compatible APIs.

Responses are rendered as they stream in, and fenced code blocks are syntax
highlighted line by line without waiting for the block to close.

Get started:
  codestream auth openai             Store an API key
  codestream chat                    Start an interactive conversation
  codestream ask "write a for loop"  Ask a single question
  codestream render README.md        Highlight the code blocks of a file`

const codestreamShortDesc string = "codestream - streaming chat with highlighted code"

func NewCodestreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "codestream",
		Short:         codestreamShortDesc,
		Long:          codestreamLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .codestream/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also append debug logs as JSON to this file")

	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(rendercmder.NewRenderCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
