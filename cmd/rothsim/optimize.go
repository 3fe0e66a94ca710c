package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/compare"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/optimization"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <conversion|withdrawal|ss> [scenario-file]",
	Short: "Sweep one decision and rank the outcomes by TANW",
	Long: `Evaluate every candidate of a parameter sweep and rank them by terminal
after-tax net worth (TANW).

  conversion  Roth conversion amount x conversion end age
  withdrawal  the twelve curated withdrawal orders
  ss          Social Security claim ages 62 through 70

Examples:
  rothsim optimize ss plan.yaml
  rothsim optimize conversion plan.yaml --amount-max 200000 --amount-step 10000 --workers 8
  rothsim optimize withdrawal plan.yaml --format csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := domain.ParseOptimizationType(args[0])
		if err != nil {
			return err
		}
		s, path, err := loadScenario(args[1:])
		if err != nil {
			return err
		}

		opt := newOptimizer(cmd)
		ce := compare.NewCompareEngine(newEngine(), opt)

		var compSet *compare.ComparisonSet
		if t == domain.OptimizeConversion {
			sweep, err := conversionSweep(cmd.Flags(), s)
			if err != nil {
				return err
			}
			compSet = ce.FromOptimization(s, opt.OptimizeRothConversion(s, sweep))
		} else {
			compSet, err = ce.CompareSweep(cmd.Context(), s, t)
			if err != nil {
				return err
			}
		}
		compSet.ConfigPath = path

		return writeComparison(cmd, compSet)
	},
}

var gridCmd = &cobra.Command{
	Use:   "grid [scenario-file]",
	Short: "Evaluate the Roth conversion amount x end age grid",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadScenario(args)
		if err != nil {
			return err
		}
		opts, err := gridOptions(cmd.Flags())
		if err != nil {
			return err
		}

		g := newOptimizer(cmd).ComputeRothConversionGrid(s, opts)
		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "csv":
			out, err := (&compare.CSVFormatter{}).FormatGrid(g)
			if err != nil {
				return err
			}
			return writeString(cmd.OutOrStdout(), out)
		case "json":
			out, err := (&compare.JSONFormatter{Pretty: true}).FormatGrid(g)
			if err != nil {
				return err
			}
			return writeString(cmd.OutOrStdout(), out)
		case "table", "":
			return writeString(cmd.OutOrStdout(), (&compare.TableFormatter{}).FormatGrid(g))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
		}
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies [scenario-file]",
	Short: "Compare the curated withdrawal orders side by side",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadScenario(args)
		if err != nil {
			return err
		}

		r := newOptimizer(cmd).CompareWithdrawalStrategies(s)
		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "csv":
			out, err := (&compare.CSVFormatter{}).FormatStrategies(r)
			if err != nil {
				return err
			}
			return writeString(cmd.OutOrStdout(), out)
		case "json":
			out, err := (&compare.JSONFormatter{Pretty: true}).FormatStrategies(r)
			if err != nil {
				return err
			}
			return writeString(cmd.OutOrStdout(), out)
		case "table", "":
			return writeString(cmd.OutOrStdout(), (&compare.TableFormatter{}).FormatStrategies(r))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <base-file> <alternative-file>...",
	Short: "Compare saved scenario files against a base scenario",
	Long: `Simulate a base scenario and one or more alternatives and compare their
final TANW, lifetime taxes and shortfalls.

Examples:
  rothsim compare plan.yaml convert-early.yaml delay-ss.yaml
  rothsim compare plan.yaml convert-early.yaml --format json`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		base, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}
		alts := make([]domain.Scenario, 0, len(args)-1)
		for _, path := range args[1:] {
			s, err := parser.LoadFromFile(path)
			if err != nil {
				return err
			}
			alts = append(alts, *s)
		}

		compSet, err := compare.NewCompareEngine(newEngine(), nil).CompareScenarios(cmd.Context(), *base, alts)
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		compSet.ConfigPath = args[0]
		return writeComparison(cmd, compSet)
	},
}

func newOptimizer(cmd *cobra.Command) *optimization.Optimizer {
	workers, _ := cmd.Flags().GetInt("workers")
	opts := []optimization.Option{
		optimization.WithEngine(newEngine()),
		optimization.WithWorkers(workers),
	}
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		w := cmd.ErrOrStderr()
		opts = append(opts, optimization.WithProgress(func(done, total int, label string) {
			fmt.Fprintf(w, "\r[%d/%d] %-50s", done, total, label)
			if done == total {
				fmt.Fprintln(w)
			}
		}))
	}
	return optimization.NewOptimizer(opts...)
}

func writeComparison(cmd *cobra.Command, compSet *compare.ComparisonSet) error {
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("top")

	switch strings.ToLower(format) {
	case "csv":
		out, err := (&compare.CSVFormatter{}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		return writeString(cmd.OutOrStdout(), out)
	case "json":
		out, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		return writeString(cmd.OutOrStdout(), out)
	case "compact":
		return writeString(cmd.OutOrStdout(), (&compare.TableFormatter{Limit: limit}).FormatCompact(compSet))
	case "table", "console", "":
		return writeString(cmd.OutOrStdout(), (&compare.TableFormatter{Limit: limit}).Format(compSet))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
	}
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// conversionSweep starts from the default sweep and applies any range flags
func conversionSweep(flags *pflag.FlagSet, s domain.Scenario) (domain.ConversionSweepOptions, error) {
	sweep := optimization.DefaultConversionSweep(s)
	if err := applyRangeFlags(flags, &sweep.AmountMin, &sweep.AmountMax, &sweep.AmountStep, &sweep.EndAgeMin, &sweep.EndAgeMax, &sweep.EndAgeStep); err != nil {
		return sweep, err
	}
	return sweep, nil
}

// gridOptions reads range flags; unset values take grid defaults.
// An explicit --amount-max 0 grids only the zero amount.
func gridOptions(flags *pflag.FlagSet) (domain.GridOptions, error) {
	var g domain.GridOptions
	var amountMax decimal.Decimal
	if err := applyRangeFlags(flags, &g.AmountMin, &amountMax, &g.AmountStep, &g.EndAgeMin, &g.EndAgeMax, &g.EndAgeStep); err != nil {
		return g, err
	}
	if flags.Changed("amount-max") {
		g.AmountMax = &amountMax
	}
	return g, nil
}

func applyRangeFlags(flags *pflag.FlagSet, amountMin, amountMax, amountStep *decimal.Decimal, endMin, endMax, endStep *int) error {
	for name, dst := range map[string]*decimal.Decimal{"amount-min": amountMin, "amount-max": amountMax, "amount-step": amountStep} {
		if !flags.Changed(name) {
			continue
		}
		raw, _ := flags.GetString(name)
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*dst = d
	}
	for name, dst := range map[string]*int{"end-age-min": endMin, "end-age-max": endMax, "end-age-step": endStep} {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	return nil
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("amount-min", "0", "Smallest annual conversion amount")
	cmd.Flags().String("amount-max", "", "Largest annual conversion amount")
	cmd.Flags().String("amount-step", "", "Conversion amount step")
	cmd.Flags().Int("end-age-min", 0, "Earliest conversion end age")
	cmd.Flags().Int("end-age-max", 0, "Latest conversion end age")
	cmd.Flags().Int("end-age-step", 0, "Conversion end age step")
}

func addSweepFlags(cmd *cobra.Command, formats string) {
	cmd.Flags().Int("workers", runtime.NumCPU(), "Number of parallel simulation workers")
	cmd.Flags().Bool("progress", false, "Print progress to stderr")
	cmd.Flags().StringP("format", "f", "table", "Output format ("+formats+")")
}

func init() {
	addSweepFlags(optimizeCmd, "table, compact, csv, json")
	addRangeFlags(optimizeCmd)
	optimizeCmd.Flags().Int("top", 0, "Show only the best N candidates in table output")

	addSweepFlags(gridCmd, "table, csv, json")
	addRangeFlags(gridCmd)

	addSweepFlags(strategiesCmd, "table, csv, json")

	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Int("top", 0, "Show only the best N alternatives in table output")
}
