package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/metagen/internal/server"
)

var (
	serveHost   string
	servePort   string
	serveLLM    string
	serveReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metagen server",
	Long: `Start the metagen HTTP server.

The server provides:
  - GET  /health               - Basic server health check
  - GET  /ready                - Readiness check (LLM provider configured)
  - GET  /status               - Registered providers and config file
  - POST /api/metadata         - Generate metadata for {"text"} or {"urls"}
  - POST /api/metadata/export  - Same input (or {"results"}), answered as CSV

Provider settings are reloaded when the config file changes.

Examples:
  metagen serve                    # Start on the configured port (default 8080)
  metagen serve --port 3000        # Start on custom port
  metagen serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(os.Stdout)

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		mgr.SetLogger(logger)
		if serveReload && mgr.ConfigFile() != "" {
			mgr.WatchConfig()
		}

		cfg := mgr.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			LLMProvider:   serveLLM,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	serveCmd.Flags().StringVar(&serveLLM, "llm", "", "LLM provider name (default: defaults.llm_provider)")
	serveCmd.Flags().BoolVar(&serveReload, "watch", true, "Reload providers when the config file changes")

	rootCmd.AddCommand(serveCmd)
}
