package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the agent over JSON HTTP:

  GET  /healthz
  POST /v1/index      {"uri": "..."}
  DELETE /v1/index
  POST /v1/query      {"question": "..."}
  POST /v1/context    {"question": "..."}
  GET  /v1/count
  GET  /v1/documents

The server shuts down gracefully on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := httpapi.NewServer(&httpapi.Ports{Agent: a.agent, Documents: a.documents})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
