package calculation

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Blended flat rates: one ordinary income rate and one capital gains rate
//    apply to every dollar. No brackets, deductions or credits.
//
// 2. Ordinary income = IRA distributions + Roth conversions + taxable Social
//    Security + cash interest.
//
// 3. Capital gains tax applies only to realized gains on taxable sales.
//    Losses never produce a negative tax.

// YearlyTaxInput carries the income streams for one tax year
type YearlyTaxInput struct {
	IRADistributions decimal.Decimal
	RothConversion   decimal.Decimal
	RealizedCapGains decimal.Decimal
	CashInterest     decimal.Decimal
	// SSGross is carried for reporting; only SSTaxable enters the ordinary base
	SSGross      decimal.Decimal
	SSTaxable    decimal.Decimal
	OrdinaryRate decimal.Decimal
	CapGainsRate decimal.Decimal
}

// TaxCalculation is the tax owed for a year with per-stream attribution
type TaxCalculation struct {
	OrdinaryTax     decimal.Decimal
	CapitalGainsTax decimal.Decimal
	TotalTax        decimal.Decimal
	Sources         domain.TaxSources
}

// OrdinaryIncome returns the ordinary income base for the input
func (in YearlyTaxInput) OrdinaryIncome() decimal.Decimal {
	return in.IRADistributions.Add(in.RothConversion).Add(in.SSTaxable).Add(in.CashInterest)
}

// CalculateYearlyTax computes the flat-rate tax for a year.
// Ordinary sources sum to OrdinaryTax.
func CalculateYearlyTax(in YearlyTaxInput) TaxCalculation {
	ordinaryTax := in.OrdinaryIncome().Mul(in.OrdinaryRate)
	capGainsTax := decimal.Max(in.RealizedCapGains, decimal.Zero).Mul(in.CapGainsRate)

	return TaxCalculation{
		OrdinaryTax:     ordinaryTax,
		CapitalGainsTax: capGainsTax,
		TotalTax:        ordinaryTax.Add(capGainsTax),
		Sources: domain.TaxSources{
			IRADistributions: in.IRADistributions.Mul(in.OrdinaryRate),
			RothConversion:   in.RothConversion.Mul(in.OrdinaryRate),
			SSTaxable:        in.SSTaxable.Mul(in.OrdinaryRate),
			CapitalGains:     capGainsTax,
			CashInterest:     in.CashInterest.Mul(in.OrdinaryRate),
		},
	}
}
