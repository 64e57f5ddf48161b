package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/metagen/internal/api"
	"github.com/jackzampolin/metagen/internal/export"
	"github.com/jackzampolin/metagen/internal/metadata"
	"github.com/jackzampolin/metagen/internal/metrics"
	"github.com/jackzampolin/metagen/internal/providers"
	"github.com/jackzampolin/metagen/internal/types"
	"github.com/jackzampolin/metagen/internal/urls"
)

var (
	generateFile string
	generateCSV  string
	generateLLM  string
	generateSave bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [urls...]",
	Short: "Generate SEO metadata for a batch of URLs",
	Long: `Generate SEO metadata for a batch of URLs without a server.

URLs come from positional arguments, --file, or piped stdin. Entries may be
separated by newlines or commas; entries that are not absolute URLs are
skipped. All URLs are processed concurrently and results are printed in
input order. With --csv - the CSV replaces the result table on stdout.
Logs go to stderr.

Examples:
  metagen generate https://example.com/shoes https://example.com/hats
  metagen generate --file urls.txt --csv optimized_metadata.csv
  cat urls.txt | metagen generate -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(os.Stderr)

		text, err := api.ReadInput(args, generateFile, os.Stdin)
		if err != nil {
			return err
		}
		list := urls.Parse(text)
		if len(list) == 0 {
			return metadata.ErrNoURLs
		}

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())

		name := generateLLM
		if name == "" {
			name = cfg.Defaults.LLMProvider
		}
		client, name, err := registry.DefaultLLM(name)
		if err != nil {
			return fmt.Errorf("%w: %v (check llm_providers in %s)", metadata.ErrNoClient, err, configSource(mgr.ConfigFile()))
		}
		logger.Debug("using LLM provider", "name", name)

		rec := metrics.NewRecorder()
		gen, err := metadata.NewGenerator(metadata.GeneratorConfig{
			Client:    client,
			MaxTokens: cfg.Defaults.MaxTokens,
			Recorder:  rec,
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		results, err := metadata.NewBatch(gen, logger).Run(ctx, list)
		if err != nil {
			return err
		}

		usage := rec.Summary(metrics.Filter{})
		logger.Info("model usage",
			"calls", usage.Calls,
			"errors", usage.ErrorCount,
			"total_tokens", usage.TotalTokens,
			"latency_p95", usage.LatencyP95,
		)

		if err := printResults(cmd.OutOrStdout(), api.GetOutputFormat(), generateCSV, results); err != nil {
			return err
		}

		if generateSave {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path := h.ExportPath(export.TimestampedFileName(time.Now()))
			if err := writeCSVFile(path, results); err != nil {
				return err
			}
			logger.Info("saved CSV export", "path", path, "rows", export.Rows(results))
		}

		if generateCSV == "" || generateCSV == "-" {
			return nil
		}
		if err := writeCSVFile(generateCSV, results); err != nil {
			return err
		}
		logger.Info("exported CSV", "path", generateCSV, "rows", export.Rows(results))
		return nil
	},
}

// printResults writes the result set to w. A csv target of "-" makes the
// CSV the only document on w so it can be piped.
func printResults(w io.Writer, format api.OutputFormat, csv string, results []types.Result) error {
	if csv == "-" {
		return export.WriteCSV(w, results)
	}
	return api.OutputResultsTo(w, format, results)
}

func writeCSVFile(path string, results []types.Result) error {
	if err := os.WriteFile(path, []byte(export.CSV(results)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func configSource(path string) string {
	if path == "" {
		return "the default config"
	}
	return path
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "read URLs from file (- for stdin)")
	generateCmd.Flags().StringVar(&generateCSV, "csv", "", "also write successful results as CSV to this path (- prints only the CSV to stdout)")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "also save a timestamped CSV under {home}/exports")
	generateCmd.Flags().StringVar(&generateLLM, "llm", "", "LLM provider name (default: defaults.llm_provider)")

	rootCmd.AddCommand(generateCmd)
}
