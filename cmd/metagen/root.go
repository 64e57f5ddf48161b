package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/metagen/internal/api"
	"github.com/jackzampolin/metagen/internal/config"
	"github.com/jackzampolin/metagen/internal/home"
	"github.com/jackzampolin/metagen/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "metagen",
	Short: "Batch SEO metadata generation with LLM-driven length correction",
	Long: `metagen generates SEO metadata (title, meta description and focus
keyword) for batches of URLs using a large language model.

Every candidate is checked against fixed length limits:
  - title: 40-55 characters
  - description: 140-155 characters

Out-of-range candidates are sent back to the model with per-field
correction feedback, up to 3 attempts per URL. Results can be printed as
a table, JSON or YAML, and exported as CSV.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.metagen/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "metagen home directory (default: ~/.metagen)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "table", "output format: table, yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the process logger writing to w.
func newLogger(w *os.File) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the home directory and loads configuration. An
// explicit --config wins, then {home}/config.yaml, then the default search
// path.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return h, mgr, nil
}
