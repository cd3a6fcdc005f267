package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can index the
document, ask questions and read retrieved context.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead, for example to test with MCP Inspector.

Tools:     index_document, query, retrieve_context, count_records, delete_index
Resources: qa-agent://documents, qa-agent://documents/{shape}

Examples:
  qa-agent mcp serve
  qa-agent mcp serve --port 8090

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "qa-agent": {
        "command": "/path/to/qa-agent",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := mcp.NewServer(&mcp.Ports{Agent: a.agent, Documents: a.documents})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout stays clean in stdio mode; only HTTP mode announces itself.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
