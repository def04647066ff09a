// =============================================================================
// Fuel Journal Stats - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fuelstats)
//   ├── processCmd (fuelstats process)
//   ├── extractCmd (fuelstats extract)
//   └── versionCmd (fuelstats version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   call loadRuntime to read the configuration and build the logger.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuelstats/internal/config"
	"github.com/ginjaninja78/fuelstats/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fuelstats",
	Short: "Fuel Journal Stats - Daily fuel and car-wash statistics from POS journals",
	Long: `Fuel Journal Stats reads the electronic journal a fuel-station point of sale
writes each day, reconstructs the fuel and car-wash transactions it records,
and tabulates them into a spreadsheet with one sheet per month.

Key Features:
  - Indoor prepays matched to their finalizations, voids recovered
  - Car washes counted once, attached or stand-alone
  - Per-day diagnostics for everything that could not be resolved
  - Concurrent extraction of the days of a month
  - Optional SQLite archive of every resolved transaction

Example Usage:
  fuelstats process ./journals results.xlsx   # Analyze every new month
  fuelstats process --config ./my.yaml        # Use a custom configuration file
  fuelstats extract 201503/20150302.txt       # Show what one day resolves to`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Interrupting the process cancels the
// running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (a missing file means defaults)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadRuntime loads the configuration and builds the logger from it.
func loadRuntime() (*config.MainConfig, *logger.ZapLogger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
