package main

import (
	"fmt"
	"os"

	"github.com/mapalengke/backend/config"
	"github.com/mapalengke/backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	logLevel string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mapalengke",
	Short: "Mapalengke market directory backend",
	Long: `mapalengke serves the Toril Public Market vendor directory.

Vendors, products and stalls are read from the managed backend (Supabase REST
or Postgres directly), classified into browsing categories, aggregated per
vendor and sorted by name or stall number.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(level, cfg.Log.Encoding)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	browseCmd.Flags().StringVar(&browseSort, "sort", "alpha", "Sort order: alpha or stall")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
