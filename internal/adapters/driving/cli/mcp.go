package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the indexed filings.

By default the server communicates over stdio using JSON-RPC. Use --http to
serve the streamable HTTP transport instead, e.g. for MCP Inspector.

Examples:
  # Stdio mode (for desktop assistants)
  filingvec mcp

  # HTTP mode
  filingvec mcp --http :8080

Assistant configuration:
  {
    "mcpServers": {
      "filingvec": {
        "command": "/path/to/filingvec",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	index, err := requireIndex()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Index:  index,
		Ingest: app.Ingest,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
