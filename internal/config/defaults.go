package config

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
	"github.com/shopspring/decimal"
)

// DefaultScenario is a 62-year-old retiree with a large IRA
// and a modest conversion plan. It is used when no scenario file is given.
func DefaultScenario() domain.Scenario {
	return domain.Scenario{
		Name:                   "Default",
		StartAge:               62,
		EndAge:                 95,
		IRABalance:             decimal.NewFromInt(2_000_000),
		RothBalance:            decimal.Zero,
		TaxableBalance:         decimal.NewFromInt(500_000),
		TaxableBasis:           decimal.NewFromInt(250_000),
		CashBalance:            decimal.NewFromInt(200_000),
		InvestmentReturn:       decimal.NewFromFloat(0.07),
		CashReturn:             decimal.NewFromFloat(0.03),
		InflationRate:          decimal.NewFromFloat(0.03),
		OrdinaryIncomeRate:     decimal.NewFromFloat(0.22),
		CapitalGainsRate:       decimal.NewFromFloat(0.15),
		SpendingPhases:         []domain.SpendingPhase{{FromAge: 62, ToAge: 95, AnnualAmount: decimal.NewFromInt(100_000), Label: "Base"}},
		OneOffExpenses:         []domain.OneOffExpense{},
		SSEnabled:              true,
		SSAnnualBenefit:        decimal.NewFromInt(36_000),
		SSClaimAge:             67,
		WithdrawalOrder:        sequencing.DefaultWithdrawalOrder(),
		TaxPaymentOrder:        sequencing.DefaultTaxPaymentOrder(),
		RothConversionAmount:   decimal.NewFromInt(50_000),
		RothConversionStartAge: 63,
		RothConversionEndAge:   72,
		AssumedIRATaxRate:      decimal.NewFromFloat(0.22),
	}
}
