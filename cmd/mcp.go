package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/api-portal/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to list, inspect, add and remove catalog APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		a.logger.Info("mcp server started on stdio")
		srv := mcpserver.NewServer(a.mutator, a.logger.Named("mcp"))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
