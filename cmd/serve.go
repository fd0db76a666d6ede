package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/hintnav/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing hint tools",
	Long: `Start a Model Context Protocol (MCP) server over one long-lived hint
engine. Agents call hint_scan to label the page, then hint_activate or
hint_keys to act, and hint_exit to clear the badges.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  hintnav serve
  hintnav serve --transport streamable-http --port 8080
  hintnav serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Reuse a scan for this many milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	srvCfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Logger:    logger,
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	srv := server.New(s.provider, s.engine, srvCfg)
	return srv.Serve(cmd.Context(), srvCfg)
}
