package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
)

// ConsoleFormatter renders assumptions, a summary and the year table
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	title := "ROTH CONVERSION & WITHDRAWAL SIMULATION"
	if res.Scenario.Name != "" {
		title += ": " + strings.ToUpper(res.Scenario.Name)
	}
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range Assumptions(res.Scenario) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeSummary(&buf, res.Summary)
	fmt.Fprintln(&buf)
	writeYearTable(&buf, res.YearRows)
	return buf.Bytes(), nil
}

func writeSummary(buf *bytes.Buffer, s domain.Summary) {
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "  Final Total:              %s\n", FormatCurrency(s.FinalTotal))
	fmt.Fprintf(buf, "  Final TANW:               %s\n", FormatCurrency(s.FinalTANW))
	fmt.Fprintf(buf, "  Total Taxes Paid:         %s\n", FormatCurrency(s.TotalTaxesPaid))
	fmt.Fprintf(buf, "    Ordinary:               %s\n", FormatCurrency(s.TotalOrdinaryTax))
	fmt.Fprintf(buf, "    Capital Gains:          %s\n", FormatCurrency(s.TotalCapGainsTax))
	fmt.Fprintf(buf, "  Total Converted:          %s\n", FormatCurrency(s.TotalConverted))
	fmt.Fprintf(buf, "  Total RMDs:               %s\n", FormatCurrency(s.TotalRMDs))
	if s.TotalSpendingShortfall.IsPositive() {
		fmt.Fprintf(buf, "  ⚠️  Spending Shortfall:     %s", FormatCurrency(s.TotalSpendingShortfall))
		if s.WorstShortfallAge != nil {
			fmt.Fprintf(buf, " (worst at age %d)", *s.WorstShortfallAge)
		}
		fmt.Fprintln(buf)
	}
	if s.TotalTaxShortfall.IsPositive() {
		fmt.Fprintf(buf, "  ⚠️  Tax Shortfall:          %s\n", FormatCurrency(s.TotalTaxShortfall))
	}
}

func writeYearTable(buf *bytes.Buffer, rows []domain.YearRow) {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Age\tIRA\tRoth\tTaxable\tCash\tTotal\tSpending\tRMD\tConversion\tTax\tShortfall\tTANW\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Age,
			FormatWhole(r.IRAEnd),
			FormatWhole(r.RothEnd),
			FormatWhole(r.TaxableEnd),
			FormatWhole(r.CashEnd),
			FormatWhole(r.TotalEnd),
			FormatWhole(r.SpendingNeed),
			FormatWhole(r.RMDRequired),
			FormatWhole(r.RothConversion),
			FormatWhole(r.TaxOwedTotal),
			FormatWhole(r.SpendingShortfall.Add(r.TaxShortfall)),
			FormatWhole(r.TANW),
		)
	}
	tw.Flush()
}

// FormatLedgerYear renders one year's ledger grouped by phase
func FormatLedgerYear(res *domain.SimulationResult, age int) (string, error) {
	row, ok := res.RowForAge(age)
	if !ok {
		return "", fmt.Errorf("age %d is outside the simulation (%d-%d)", age, res.Scenario.StartAge, res.Scenario.EndAge)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "LEDGER FOR AGE %d (year %d)\n", age, row.YearIndex+1)
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	for _, group := range calculation.GroupByPhase(res.LedgerByYear[row.YearIndex]) {
		fmt.Fprintf(&buf, "\n%s\n", PhaseTitle(group.Phase))
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, e := range group.Entries {
			amount := FormatCurrency(e.AmountGross)
			if e.AmountNet != nil && !e.AmountNet.Equal(e.AmountGross) {
				amount += " (net " + FormatCurrency(*e.AmountNet) + ")"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", e.PrimaryAccount().DisplayName(), amount, e.Description)
		}
		tw.Flush()
	}
	fmt.Fprintf(&buf, "\nEnd of year total: %s   TANW: %s\n", FormatCurrency(row.TotalEnd), FormatCurrency(row.TANW))
	return buf.String(), nil
}

// PhaseTitle is the display heading for a ledger phase
func PhaseTitle(p domain.LedgerPhase) string {
	switch p {
	case domain.PhaseGrowth:
		return "Growth"
	case domain.PhaseSpending:
		return "Spending"
	case domain.PhaseRMD:
		return "Required Minimum Distribution"
	case domain.PhaseConversion:
		return "Roth Conversion"
	case domain.PhaseTaxSettlement:
		return "Tax Settlement"
	case domain.PhaseReinvest:
		return "Reinvestment"
	default:
		return string(p)
	}
}
