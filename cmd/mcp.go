package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/hydradash/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing read-only Hydra status, library and document tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, d, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "hydradash MCP server started on stdio (backend=%s)\n", cfg.BackendURL)

		srv := mcpserver.NewServer(d)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
