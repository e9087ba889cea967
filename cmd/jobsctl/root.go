package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobtrend/internal/backend"
	"jobtrend/internal/cli"
	"jobtrend/internal/config"
	applog "jobtrend/internal/log"
)

var (
	verbose     bool
	noColor     bool
	backendFlag string
	cfg         *config.Config
	logger      *applog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jobsctl",
	Short: "Job postings report and import tool",
	Long: `jobsctl reads job postings through the same sources as the dashboard.

Example usage:
  jobsctl report                        # Postings per month, all years
  jobsctl report --year 2024            # Months of 2024 only
  jobsctl report --month 2024-03        # Add the postings of March 2024
  jobsctl import postings.json          # Load a {"searches": [...]} file into SQLite
  jobsctl watch                         # Follow fetch notifications from the broker`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "job source, overrides DATA_BACKEND ("+strings.Join(backend.GetBackendTypeStrings(), ", ")+")")
}

// initConfig loads .env and the environment, then applies flag overrides.
func initConfig() error {
	cli.LoadEnvFile()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)

	cfg = config.Load()
	if backendFlag != "" {
		cfg.DataBackend = backendFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Debug("configuration loaded",
		"backend", cfg.DataBackend,
		"timezone", cfg.Timezone)
	return nil
}
