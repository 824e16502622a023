package commands

import (
	"github.com/spf13/cobra"

	"burncast/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve forecasting tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdio exposing the stored
projects: listing, period ingestion, productivity adjustments and forecasts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return mcp.NewServer(store, cfg, Version).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
