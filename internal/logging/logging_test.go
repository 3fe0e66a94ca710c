package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestCalcLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewCalcLogger(New(Config{Level: "warn", Out: &buf}))

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "shown 2", rec["message"])
	assert.Equal(t, "engine", rec["component"])
}

func TestCalcLogger_EngineTaxShortfall(t *testing.T) {
	var buf bytes.Buffer
	engine := calculation.NewEngine()
	engine.SetLogger(NewCalcLogger(New(Config{Level: "debug", Out: &buf})))

	// converting the whole IRA leaves nothing to pay the conversion tax with
	s := domain.Scenario{
		StartAge:               62,
		EndAge:                 62,
		IRABalance:             decimal.NewFromInt(100_000),
		OrdinaryIncomeRate:     decimal.NewFromFloat(0.22),
		CapitalGainsRate:       decimal.NewFromFloat(0.15),
		WithdrawalOrder:        []domain.AccountType{domain.AccountCash, domain.AccountTaxable, domain.AccountIRA, domain.AccountRoth},
		TaxPaymentOrder:        []domain.AccountType{domain.AccountCash, domain.AccountTaxable, domain.AccountIRA},
		SSClaimAge:             67,
		AssumedIRATaxRate:      decimal.NewFromFloat(0.22),
		RothConversionAmount:   decimal.NewFromInt(100_000),
		RothConversionStartAge: 62,
		RothConversionEndAge:   62,
	}
	res := engine.RunSimulation(s)
	require.Len(t, res.YearRows, 1)
	require.True(t, res.YearRows[0].TaxShortfall.IsPositive())

	assert.Contains(t, buf.String(), "Tax shortfall")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
