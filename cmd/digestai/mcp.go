// ABOUTME: CLI command that starts the Model Context Protocol server.
// ABOUTME: Speaks MCP over stdio so logs must stay off stdout.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol server over stdio. AI assistants can
then log symptoms and meals, search foods, generate reports, and read
the dashboard on your behalf.

Claude Desktop configuration:

  {
    "mcpServers": {
      "digestai": { "command": "digestai", "args": ["mcp"] }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}

		server, err := mcp.NewServer(mcp.Deps{
			Identity:  sess,
			Symptoms:  symptomStore,
			FoodLogs:  foodLogStore,
			Foods:     foodStore,
			Reports:   reportStore,
			Dashboard: dashStore,
			Chat:      chatStore,
			AI:        aiGateway,
		})
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		log.Info().Msg("starting MCP server on stdio")
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
