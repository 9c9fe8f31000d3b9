package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/thesaurus/internal/app"
)

func (c *CLI) newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [terms...]",
		Short: "Print the synonyms of terms in one source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			return c.app.Lookup(cmd.Context(), app.LookupOptions{
				ConfigPath: configPath(cmd),
				Source:     source,
				Terms:      args,
			})
		},
	}
	cmd.Flags().StringP("source", "s", "", "Source to look terms up in")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
