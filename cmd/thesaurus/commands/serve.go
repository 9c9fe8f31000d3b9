package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/thesaurus/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep every configured dictionary fresh and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			jsonLogs, _ := cmd.Flags().GetBool("json")
			trace, _ := cmd.Flags().GetBool("trace")

			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath(cmd),
				Addr:       addr,
				JSON:       jsonLogs,
				Trace:      trace,
			})
		},
	}
	cmd.Flags().StringP("addr", "a", "", "Listen address of the diagnostics server (overrides health.addr)")
	cmd.Flags().Bool("json", false, "Emit logs as JSON")
	cmd.Flags().Bool("trace", false, "Log a line per reload phase span")
	return cmd
}
