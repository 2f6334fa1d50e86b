// Package authcmder provides the auth command for storing API credentials.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/codestream/pkg/cliui"
	"github.com/papercomputeco/codestream/pkg/credentials"
)

const authLongDesc string = `Store API credentials for streaming endpoints.

Credentials are stored in credentials.toml in the .codestream/ directory.
The key for a request is taken from the provider's environment variable
when set, and from the stored credentials otherwise. The provider is
chosen from the configured base URL: GitHub Models hosts use the github
key, everything else the openai key.

Supported providers: openai, github

Examples:
  codestream auth openai              Prompt for an OpenAI API key
  codestream auth github              Prompt for a GitHub token
  codestream auth --list              List stored credentials
  codestream auth --remove openai     Remove stored OpenAI credentials
  echo $KEY | codestream auth openai  Pipe API key from stdin`

const authShortDesc string = "Store API credentials for streaming endpoints"

type authCommander struct {
	list   bool
	remove string

	in  io.Reader
	out io.Writer
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			configDir, _ := cmd.Flags().GetString("config-dir")

			switch {
			case cmder.list:
				return cmder.runList(configDir)
			case cmder.remove != "":
				return cmder.runRemove(cmder.remove, configDir)
			default:
				if len(args) == 0 {
					return fmt.Errorf("provider argument required\n\nSupported providers: %s",
						strings.Join(credentials.SupportedProviders(), ", "))
				}
				return cmder.runAuth(args[0], configDir)
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.list, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&cmder.remove, "remove", "", "Remove stored credentials for a provider")

	return cmd
}

func (c *authCommander) runAuth(provider, configDir string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))

	if !credentials.IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s",
			provider, strings.Join(credentials.SupportedProviders(), ", "))
	}

	apiKey, err := c.readAPIKey(provider)
	if err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.SetKey(provider, apiKey); err != nil {
		return err
	}

	envVar := credentials.EnvVarForProvider(provider)
	fmt.Fprintf(c.out, "\n  %s Stored %s credentials %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(provider),
		cliui.DimStyle.Render("("+envVar+" takes precedence when set)"),
	)
	return nil
}

func (c *authCommander) runList(configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	providers, err := mgr.ListProviders()
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Fprintf(c.out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(c.out, "  Use 'codestream auth <provider>' to store credentials.\n")
		fmt.Fprintf(c.out, "  Supported providers: %s\n\n", strings.Join(credentials.SupportedProviders(), ", "))
		return nil
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))
	for _, p := range providers {
		envVar := credentials.EnvVarForProvider(p)
		if envVar != "" {
			fmt.Fprintf(c.out, "  %s  %s  %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(p),
				cliui.DimStyle.Render("→ "+envVar),
			)
		} else {
			fmt.Fprintf(c.out, "  %s  %s\n", cliui.SuccessMark, cliui.NameStyle.Render(p))
		}
	}
	fmt.Fprintln(c.out)

	return nil
}

func (c *authCommander) runRemove(provider, configDir string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.RemoveKey(provider); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Removed %s credentials.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(provider))

	return nil
}

// readAPIKey prompts with hidden input when stdin is a terminal and reads the
// first line otherwise.
func (c *authCommander) readAPIKey(provider string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		envVar := credentials.EnvVarForProvider(provider)
		fmt.Fprintf(c.out, "Enter API key for %s (%s): ", provider, envVar)

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
