// envirorank: Sri Lanka environmental district ranking dashboard.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seenimoa/envirorank/internal/config"
	"github.com/seenimoa/envirorank/internal/dashboard"
	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/internal/infra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config, loaded before every command runs.
var cfg *config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "envirorank",
		Short: "Sri Lanka environmental district rankings",
		Long: `envirorank ranks the districts of Sri Lanka on environmental metrics
loaded from a CSV or XLSX table, compares up to three districts side by
side, and serves the result as an interactive dashboard.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("data", "", "district table (.csv, .tsv or .xlsx); overrides dataset.path")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statusCmd())
	return rootCmd
}

// loadConfig reads the configuration, applies flag overrides and installs
// the default logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Dataset.Path = data
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := infra.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// loadContext loads the configured table and builds the dashboard context.
// A malformed table is fatal: nothing is rendered from it.
func loadContext() (*dashboard.Context, error) {
	opts := dataset.Options{
		KeyColumn: cfg.Dataset.KeyColumn,
		Sheet:     cfg.Dataset.Sheet,
	}
	if cfg.Dataset.SchemaFile != "" {
		exp, err := dataset.LoadExpectations(cfg.Dataset.SchemaFile)
		if err != nil {
			return nil, err
		}
		opts.Expectations = exp
	}

	t, err := dataset.Load(cfg.Dataset.Path, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("dataset loaded", "path", cfg.Dataset.Path, "districts", t.Len(), "metrics", len(t.Metrics()))

	return dashboard.New(t, dashboard.Options{
		MaxSelections: cfg.Dashboard.MaxSelections,
		DefaultMetric: cfg.Dashboard.DefaultMetric,
	})
}

// --- Version Command ---

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "envirorank %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
