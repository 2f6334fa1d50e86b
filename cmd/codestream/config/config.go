// Package configcmder provides the config command for managing persistent
// codestream configuration stored in the .codestream/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent codestream configuration.

Configuration is stored as config.toml in the .codestream/ directory and
provides default values for command flags. CLI flags and CODESTREAM_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.base_url, client.model, client.endpoint, client.timeout,
  render.highlight, render.color_profile,
  log.level

Use subcommands to get, set, or list configuration values:
  codestream config set <key> <value>    Set a configuration value
  codestream config get <key>            Get a configuration value
  codestream config list                 List all configuration values

Examples:
  codestream config set client.model gpt-4.1
  codestream config set client.endpoint chat_completions
  codestream config get render.color_profile
  codestream config list`

const configShortDesc string = "Manage persistent codestream configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
