package output

import (
	"fmt"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
)

// StaticAssumptions are modeling simplifications that hold for every run
var StaticAssumptions = []string{
	"Flat blended tax rates; no brackets, deductions or state tax",
	"Returns and inflation are constant every year",
	"Social Security taxability uses the single-filer provisional income thresholds",
	"RMDs use the IRS Uniform Lifetime Table on the prior year-end IRA balance",
}

// Assumptions lists the key assumptions behind a scenario's run
func Assumptions(s domain.Scenario) []string {
	out := []string{
		fmt.Sprintf("Investment return: %s annually; cash return: %s", FormatPercentage(s.InvestmentReturn), FormatPercentage(s.CashReturn)),
		fmt.Sprintf("Inflation: %s annually (spending and Social Security)", FormatPercentage(s.InflationRate)),
		fmt.Sprintf("Tax rates: %s ordinary, %s capital gains", FormatPercentage(s.OrdinaryIncomeRate), FormatPercentage(s.CapitalGainsRate)),
		fmt.Sprintf("TANW discounts the IRA at %s", FormatPercentage(s.AssumedIRATaxRate)),
		fmt.Sprintf("Withdrawal order: %s", sequencing.Label(s.WithdrawalOrder)),
		fmt.Sprintf("Tax payment order: %s", sequencing.Label(s.TaxPaymentOrder)),
	}
	if s.RothConversionAmount.IsPositive() {
		out = append(out, fmt.Sprintf("Roth conversions: %s per year from age %d to %d",
			FormatWhole(s.RothConversionAmount), s.RothConversionStartAge, s.RothConversionEndAge))
	}
	if s.SSEnabled {
		out = append(out, fmt.Sprintf("Social Security: %s at FRA, claimed at %d", FormatWhole(s.SSAnnualBenefit), s.SSClaimAge))
	}
	return append(out, StaticAssumptions...)
}
