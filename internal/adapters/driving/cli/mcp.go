package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobmatch/internal/adapters/driving/mcp"
)

var mcpOverrides storeOverrides

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can match
resumes against the job index with the search_jobs tool.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  jobmatch mcp serve

  # HTTP mode on /mcp, with a health probe on /healthz
  jobmatch mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "jobmatch": {
        "command": "/path/to/jobmatch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpOverrides.register(mcpServeCmd.Flags())
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}
	if err := mcpOverrides.apply(cmd.Flags(), settings); err != nil {
		return err
	}

	ctx := cmd.Context()
	services, err := openServices(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer closeServices(services)

	ports := &mcp.Ports{
		Search:   services.Search,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s/mcp (health: /healthz)\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
