package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindshifting/mindshift/internal/cli"
	"github.com/mindshifting/mindshift/internal/config"
	"github.com/mindshifting/mindshift/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the treatment engine as an MCP Server.
This allows AI agents to drive sessions through the start_session,
continue_session and undo_step tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		logger := cli.NewLogger(cfg.Log.Level)
		slog.SetDefault(logger)

		engine, cleanup, err := cli.BuildEngine(cfg, logger)
		if err != nil {
			log.Fatalf("Error initializing engine: %v", err)
		}
		defer func() { _ = cleanup() }()

		srv := mcp.NewServer(engine)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting mindshift MCP server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting mindshift MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
