package compare

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	rows := [][]string{{
		"Scenario",
		"Type",
		"Final TANW",
		"Final Total",
		"Lifetime Taxes",
		"Total Converted",
		"Total Shortfall",
		"SS Claim Age",
		"Withdrawal Order",
		"TANW Diff from Base",
		"TANW % Change",
		"Tax Diff from Base",
	}}
	if compSet.BaseResult != nil {
		rows = append(rows, cf.formatRow(compSet.BaseResult, "base"))
	}
	for i := range compSet.AlternativeResults {
		kind := "alternative"
		if i == compSet.BestIndex {
			kind = "best"
		}
		rows = append(rows, cf.formatRow(&compSet.AlternativeResults[i], kind))
	}
	return writeCSV(rows)
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.FinalTANW.StringFixed(2),
		result.FinalTotal.StringFixed(2),
		result.LifetimeTaxes.StringFixed(2),
		result.TotalConverted.StringFixed(2),
		result.TotalShortfall.StringFixed(2),
		strconv.Itoa(result.SSClaimAge),
		result.WithdrawalOrder,
		result.TANWDiffFromBase.StringFixed(2),
		result.TANWPctFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
	}
}

// FormatGrid writes one row per grid cell
func (cf *CSVFormatter) FormatGrid(g domain.GridResult) (string, error) {
	rows := [][]string{{"Amount", "End Age", "TANW", "Best", "Current"}}
	for _, c := range g.Cells {
		best := c.Amount.Equal(g.BestCell.Amount) && c.EndAge == g.BestCell.EndAge
		current := g.CurrentCell != nil && c.Amount.Equal(g.CurrentCell.Amount) && c.EndAge == g.CurrentCell.EndAge
		rows = append(rows, []string{
			c.Amount.StringFixed(2),
			strconv.Itoa(c.EndAge),
			c.TANW.StringFixed(2),
			strconv.FormatBool(best),
			strconv.FormatBool(current),
		})
	}
	return writeCSV(rows)
}

// FormatStrategies writes one row per withdrawal order, ranked
func (cf *CSVFormatter) FormatStrategies(r domain.WithdrawalComparisonResult) (string, error) {
	rows := [][]string{{"Rank", "Order", "TANW", "Total Taxes", "Final Total", "Current"}}
	for i, s := range r.Strategies {
		current := r.Current != nil && s.Label == r.Current.Label
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Label,
			s.TANW.StringFixed(2),
			s.TotalTaxes.StringFixed(2),
			s.FinalTotal.StringFixed(2),
			strconv.FormatBool(current),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}
