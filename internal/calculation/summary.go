package calculation

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeSummary aggregates year rows. An empty run yields an all-zero summary.
// WorstShortfallAge is the age of the first year with the largest spending shortfall.
func ComputeSummary(rows []domain.YearRow) domain.Summary {
	var sum domain.Summary
	if len(rows) == 0 {
		return sum
	}

	final := rows[len(rows)-1]
	sum.FinalTotal = final.TotalEnd
	sum.FinalTANW = final.TANW

	worst := decimal.Zero
	for _, row := range rows {
		sum.TotalTaxesPaid = sum.TotalTaxesPaid.Add(row.TaxOwedTotal)
		sum.TotalOrdinaryTax = sum.TotalOrdinaryTax.Add(row.TaxOwedOrdinary)
		sum.TotalCapGainsTax = sum.TotalCapGainsTax.Add(row.TaxOwedCapGains)
		sum.TotalConverted = sum.TotalConverted.Add(row.RothConversion)
		sum.TotalRMDs = sum.TotalRMDs.Add(row.RMDRequired)
		sum.TotalSpendingShortfall = sum.TotalSpendingShortfall.Add(row.SpendingShortfall)
		sum.TotalTaxShortfall = sum.TotalTaxShortfall.Add(row.TaxShortfall)
		if row.SpendingShortfall.GreaterThan(worst) {
			worst = row.SpendingShortfall
			age := row.Age
			sum.WorstShortfallAge = &age
		}
	}
	return sum
}
