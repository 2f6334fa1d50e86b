// Package versioncmder provides the version command.
package versioncmder

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/highlight"
	"github.com/papercomputeco/codestream/pkg/utils"
)

type VersionCommander struct {
	verbose bool
}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "displays version",
		Long:  "displays the version of this CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&cmder.verbose, "verbose", "v", false, "Also show the Go version, highlight theme and languages")

	return cmd
}

func (c *VersionCommander) run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version: %s\nSha: %s\nBuilt at: %s\n", utils.Version, utils.Sha, utils.Buildtime)

	if c.verbose {
		fmt.Fprintf(out, "Go: %s\nTheme: %s\nLanguages: %d\n", runtime.Version(), highlight.Theme, len(highlight.Languages()))
	}
	return nil
}
