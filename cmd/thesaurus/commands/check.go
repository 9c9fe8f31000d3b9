package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/thesaurus/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the rules of every source without publishing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Check(cmd.Context(), app.CheckOptions{ConfigPath: configPath(cmd)})
		},
	}
}
