package calculation

import (
	"testing"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func f(v decimal.Decimal) float64 {
	out, _ := v.Float64()
	return out
}

func assertNear(t *testing.T, expected float64, actual decimal.Decimal, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected, f(actual), delta, msgAndArgs...)
}

// baseScenario is a quiet scenario: no growth, no inflation, no spending, no SS, no conversions
func baseScenario() domain.Scenario {
	return domain.Scenario{
		StartAge:               62,
		EndAge:                 62,
		IRABalance:             decimal.Zero,
		RothBalance:            decimal.Zero,
		TaxableBalance:         decimal.Zero,
		TaxableBasis:           decimal.Zero,
		CashBalance:            decimal.Zero,
		InvestmentReturn:       decimal.Zero,
		CashReturn:             decimal.Zero,
		InflationRate:          decimal.Zero,
		OrdinaryIncomeRate:     d(0.22),
		CapitalGainsRate:       d(0.15),
		SSClaimAge:             67,
		WithdrawalOrder:        []domain.AccountType{domain.AccountCash, domain.AccountTaxable, domain.AccountIRA, domain.AccountRoth},
		TaxPaymentOrder:        []domain.AccountType{domain.AccountCash, domain.AccountTaxable, domain.AccountIRA},
		RothConversionAmount:   decimal.Zero,
		RothConversionStartAge: 63,
		RothConversionEndAge:   72,
		AssumedIRATaxRate:      d(0.22),
	}
}

func spendAt(from, to int, amount float64) []domain.SpendingPhase {
	return []domain.SpendingPhase{{FromAge: from, ToAge: to, AnnualAmount: d(amount)}}
}

func order(accounts ...domain.AccountType) []domain.AccountType {
	return accounts
}

// recordingLogger captures formatted warnings
type recordingLogger struct {
	NopLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}
