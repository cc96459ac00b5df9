package cli

import (
	"github.com/bastiangx/lango/internal/mcp"
	"github.com/bastiangx/lango/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer msgpack lookup requests on stdin/stdout",
		Long: `Run lango as a msgpack IPC server for editors and scripts.

Requests and responses are msgpack maps, one value per message:
  {"id": "1", "a": "lookup", "w": "apple", "x": true}
  {"id": "1", "status": "found", "entry": {...}, "t": 812}

The --english, --examples and --num-examples flags set the defaults for
requests that leave them out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context(), sessionParams{})
			if err != nil {
				return err
			}
			defer s.Close()

			srv := server.NewServer(s.svc, cmd.InOrStdin(), cmd.OutOrStdout(), a.options())
			log.Debug("IPC server starting", "dataset", a.datasetPath())
			return srv.Start(cmd.Context())
		},
	}
}

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the lookup_word tool over the Model Context Protocol",
		Long: `Run lango as an MCP server on stdio exposing the lookup_word tool.

Add it to an MCP client config as:
  {"command": "lango", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context(), sessionParams{})
			if err != nil {
				return err
			}
			defer s.Close()

			return mcp.NewServer(s.svc, a.options()).Serve(cmd.Context())
		},
	}
}
