package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/thesaurus/internal/app"
)

func (c *CLI) newReloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Run one reload cycle and print the resulting source states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, _ := cmd.Flags().GetStringSlice("source")
			force, _ := cmd.Flags().GetBool("force")

			return c.app.Reload(cmd.Context(), app.ReloadOptions{
				ConfigPath: configPath(cmd),
				Sources:    sources,
				Force:      force,
			})
		},
	}
	cmd.Flags().StringSliceP("source", "s", nil, "Source to reload (repeatable, default: all)")
	cmd.Flags().BoolP("force", "f", false, "Rebuild even if the change marker did not advance")
	return cmd
}
