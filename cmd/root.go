// =============================================================================
// Points Calculator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (pointscalc)
//   ├── calculateCmd (pointscalc calculate)
//   ├── inspectCmd   (pointscalc inspect)
//   └── versionCmd   (pointscalc version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the YAML configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/points-calculator/internal/config"
	"github.com/ginjaninja78/points-calculator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by loadConfig before a subcommand runs.
var (
	appConfig *config.Config
	logger    zerolog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "pointscalc",
	Short: "Points Calculator - Profitability of loyalty point campaigns on VTEX orders",
	Long: `Points Calculator joins a VTEX order export with a product cost export and
computes, for every order and line item, how many loyalty points a campaign
would grant and what the order still earns after points, tax, payment fees
and shipping.

Inputs may be .xlsx, .xls or .csv. Column names are matched against known
aliases, and Brazilian number formats ("1.234,56") are understood.

Example Usage:
  pointscalc calculate --orders pedidos.xlsx --costs custos.xlsx
  pointscalc calculate --orders pedidos.csv --costs custos.csv --view orders --multiplier 6
  pointscalc calculate --orders pedidos.csv --costs custos.csv --custom 4.5 --export pontos.xlsx
  pointscalc inspect --orders pedidos.csv --costs custos.csv`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the running pipeline between stages.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration and builds the logger. The default
// config.yaml may be absent; a file named with --config must exist.
func loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.Logging.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(os.Stderr, cfg.Logging.LogFormat, level)

	return nil
}
