// Package initcmder provides the init command for initializing a local
// .codestream directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/config"
)

const (
	dirName = ".codestream"
)

const initLongDesc string = `Initialize a new .codestream/ directory in the current working directory.

Creates a local .codestream/ directory that takes precedence over the
default ~/.codestream/ directory for configuration, credentials and the
saved chat session.

With --preset, a config.toml pointing at a known upstream is written
into the new directory. Available presets: openai, github, ollama.

Examples:
  codestream init
  codestream init --preset ollama`

const initShortDesc string = "Initialize a local .codestream/ directory"

type initCommander struct {
	preset string
	out    io.Writer
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Write a config.toml for a known upstream (openai, github, ollama)")

	return cmd
}

func (c *initCommander) run() error {
	var preset *config.Config
	if c.preset != "" {
		cfg, err := config.PresetConfig(c.preset)
		if err != nil {
			return err
		}
		preset = cfg
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		fmt.Fprintf(c.out, "Already initialized: %s\n", dir)
	default:
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating .codestream directory: %w", err)
		}
		fmt.Fprintf(c.out, "Initialized .codestream directory: %s\n", dir)
	}

	if preset == nil {
		return nil
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(preset); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Wrote %s preset to %s\n", c.preset, cfger.GetTarget())
	return nil
}
