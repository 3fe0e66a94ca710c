package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/output"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario-file]",
	Short: "Run a single simulation",
	Long: `Run the year-by-year simulation for a scenario file (YAML or JSON).
Without a file the built-in default scenario is used.

Examples:
  rothsim simulate plan.yaml
  rothsim simulate plan.yaml --ledger-age 72
  rothsim simulate plan.yaml --format csv --out years.csv
  rothsim simulate plan.yaml --format pdf --out report.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		ledgerAge, _ := cmd.Flags().GetInt("ledger-age")

		f, err := output.Get(format)
		if err != nil {
			return err
		}
		if output.IsBinary(f.Name()) && outPath == "" && isTerminal(cmd) {
			return fmt.Errorf("format %s is binary; write it to a file with --out", f.Name())
		}

		s, _, err := loadScenario(args)
		if err != nil {
			return err
		}

		res := newEngine().RunSimulation(s)
		logger.Info().
			Str("scenario", s.Name).
			Int("years", len(res.YearRows)).
			Str("final_tanw", res.Summary.FinalTANW.StringFixed(0)).
			Msg("Simulation complete")

		if outPath != "" {
			if err := output.WriteFile(outPath, f, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s report to %s\n", f.Name(), outPath)
		} else if err := output.Write(cmd.OutOrStdout(), f, res); err != nil {
			return err
		}

		if ledgerAge > 0 {
			text, err := output.FormatLedgerYear(res, ledgerAge)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "\n"+text)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <scenario-file>",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scenario file %s is valid\n", args[0])
		return nil
	},
}

// isTerminal reports whether command output goes to an interactive terminal
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func init() {
	simulateCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, ledger-csv, json, msgpack, pdf)")
	simulateCmd.Flags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	simulateCmd.Flags().Int("ledger-age", 0, "Also print the ledger for this age")
}
