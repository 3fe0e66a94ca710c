package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevel  string
	logPretty bool

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "rothsim",
	Short: "Roth conversion and withdrawal simulator",
	Long: `Year-by-year retirement simulation across cash, taxable, traditional IRA
and Roth accounts, with sweeps over Roth conversions, withdrawal order and
Social Security claim age.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Config{Level: logLevel, Pretty: logPretty})
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rothsim %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "go %s\n", bi.GoVersion)
			}
		},
	}
}

// newEngine builds an engine that logs through the CLI logger
func newEngine() *calculation.Engine {
	e := calculation.NewEngine()
	e.SetLogger(logging.NewCalcLogger(logger))
	return e
}

// loadScenario reads args[0], or returns the built-in default when no file is given
func loadScenario(args []string) (domain.Scenario, string, error) {
	if len(args) == 0 {
		logger.Info().Msg("No scenario file given, using defaults")
		return config.DefaultScenario(), "", nil
	}
	s, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return domain.Scenario{}, "", err
	}
	return *s, args[0], nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", true, "Human readable log output on stderr")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
