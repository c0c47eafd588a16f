// =============================================================================
// Invoice Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// (process, version) attach to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoice-extractor)
//   ├── processCmd (invoice-extractor process)
//   └── versionCmd (invoice-extractor version)
//
// The root command owns the global flags (--config, --verbose) and builds
// the logger and configuration shared by every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Overridden with the --config flag; a missing file means built-in defaults.
var cfgFile string

// verbose enables debug-level logging when set to true.
var verbose bool

// log is the shared logger, built before any subcommand runs.
var log zerolog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoice-extractor",
	Short: "Invoice Extractor - Turn loose spreadsheet exports into canonical invoice records",
	Long: `Invoice Extractor ingests loosely structured spreadsheet exports (trade
invoices, packing lists) and produces canonical, aggregated JSON records.

Input sheets have no fixed layout: the header row's position varies, header
wording varies across customers and languages, and a sheet may hold several
data tables. The extractor locates the best-fit header row by scoring the
data beneath each candidate, extracts every table, parses volume
expressions, distributes aggregate quantities across sibling rows, and
compounds the totals into export-ready groups.

Example Usage:
  invoice-extractor process shipment.xlsx
  invoice-extractor process export.csv --output-dir ./out
  invoice-extractor process shipment.xlsx --sheet "Packing List" --verbose`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(verbose)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the YAML configuration file (built-in defaults when omitted)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadConfig resolves the run configuration for subcommands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
