package optimization

import (
	"sort"
	"testing"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func testScenario() domain.Scenario {
	return domain.Scenario{
		Name:                   "test",
		StartAge:               62,
		EndAge:                 80,
		IRABalance:             d(1_000_000),
		RothBalance:            d(50_000),
		TaxableBalance:         d(300_000),
		TaxableBasis:           d(200_000),
		CashBalance:            d(100_000),
		InvestmentReturn:       d(0.06),
		CashReturn:             d(0.03),
		InflationRate:          d(0.025),
		OrdinaryIncomeRate:     d(0.22),
		CapitalGainsRate:       d(0.15),
		SpendingPhases:         []domain.SpendingPhase{{FromAge: 62, ToAge: 80, AnnualAmount: d(70_000)}},
		SSEnabled:              true,
		SSAnnualBenefit:        d(30_000),
		SSClaimAge:             67,
		WithdrawalOrder:        sequencing.DefaultWithdrawalOrder(),
		TaxPaymentOrder:        sequencing.DefaultTaxPaymentOrder(),
		RothConversionAmount:   d(40_000),
		RothConversionStartAge: 63,
		RothConversionEndAge:   70,
		AssumedIRATaxRate:      d(0.22),
	}
}

func assertBestIsFirstMax(t *testing.T, res domain.OptimizationResult) {
	t.Helper()
	require.NotNil(t, res.Best)
	first := -1
	for i, v := range res.Variants {
		if first < 0 || v.Score.GreaterThan(res.Variants[first].Score) {
			first = i
		}
	}
	assert.Equal(t, res.Variants[first].Label, res.Best.Label)
	assert.True(t, res.BestScore.Equal(res.Variants[first].Score))
	assert.True(t, res.BestScore.Equal(res.Best.Summary.FinalTANW))
}

func TestCompareSSClaimAges(t *testing.T) {
	s := testScenario()
	res := CompareSSClaimAges(s)

	assert.Equal(t, domain.OptimizeSSClaimAge, res.Type)
	require.Len(t, res.Variants, 9)
	for i, v := range res.Variants {
		assert.Equal(t, MinClaimAge+i, v.Scenario.SSClaimAge)
	}
	assert.Equal(t, "Claim at 62", res.Variants[0].Label)
	assert.Equal(t, "Claim at 70", res.Variants[8].Label)
	assertBestIsFirstMax(t, res)
	assert.Equal(t, res.Best.Scenario.SSClaimAge, res.BestScenario.SSClaimAge)

	// input is untouched
	assert.Equal(t, 67, s.SSClaimAge)
}

func TestCompareWithdrawalOrders(t *testing.T) {
	res := CompareWithdrawalOrders(testScenario())

	require.Len(t, res.Variants, 12)
	orders := sequencing.CommonWithdrawalOrders()
	for i, v := range res.Variants {
		assert.Equal(t, orders[i].Label, v.Label)
		assert.True(t, sequencing.Equal(orders[i].Order, v.Scenario.WithdrawalOrder))
	}
	assertBestIsFirstMax(t, res)
	assert.Equal(t, 12, res.Stats.Count)
}

func TestOptimizeRothConversion(t *testing.T) {
	s := testScenario()
	opts := domain.ConversionSweepOptions{
		AmountMin:  decimal.Zero,
		AmountMax:  d(100_000),
		AmountStep: d(50_000),
		EndAgeMin:  65,
		EndAgeMax:  70,
		EndAgeStep: 5,
	}
	res := OptimizeRothConversion(s, opts)

	require.Len(t, res.Variants, 6)
	assert.Equal(t, "Convert $0 until age 65", res.Variants[0].Label)
	assert.Equal(t, "Convert $0 until age 70", res.Variants[1].Label)
	assert.Equal(t, "Convert $50,000 until age 65", res.Variants[2].Label)
	assert.Equal(t, "Convert $100,000 until age 70", res.Variants[5].Label)
	assertBestIsFirstMax(t, res)

	// untouched fields carry over
	assert.Equal(t, s.RothConversionStartAge, res.BestScenario.RothConversionStartAge)
	assert.True(t, s.RothConversionAmount.Equal(d(40_000)))
}

func TestOptimizeRothConversion_NonPositiveStep(t *testing.T) {
	opts := domain.ConversionSweepOptions{
		AmountMin:  d(20_000),
		AmountMax:  d(100_000),
		AmountStep: decimal.Zero,
		EndAgeMin:  70,
		EndAgeMax:  70,
		EndAgeStep: 0,
	}
	res := OptimizeRothConversion(testScenario(), opts)

	require.Len(t, res.Variants, 1)
	assert.True(t, res.Variants[0].Scenario.RothConversionAmount.Equal(d(20_000)))
}

func TestOptimizeRothConversion_EmptyRange(t *testing.T) {
	s := testScenario()
	opts := domain.ConversionSweepOptions{AmountMin: d(10), AmountMax: d(5), AmountStep: d(1), EndAgeMin: 70, EndAgeMax: 70, EndAgeStep: 1}
	res := OptimizeRothConversion(s, opts)

	assert.Empty(t, res.Variants)
	assert.Nil(t, res.Best)
	assert.True(t, res.BestScore.IsZero())
	assert.True(t, res.BestScenario.RothConversionAmount.Equal(s.RothConversionAmount))
}

func TestParallelMatchesSequential(t *testing.T) {
	s := testScenario()
	seq := NewOptimizer().CompareWithdrawalOrders(s)

	var calls []int
	par := NewOptimizer(WithWorkers(4), WithProgress(func(done, total int, _ string) {
		calls = append(calls, done)
		assert.Equal(t, 12, total)
	})).CompareWithdrawalOrders(s)

	require.Len(t, par.Variants, len(seq.Variants))
	for i := range seq.Variants {
		assert.Equal(t, seq.Variants[i].Label, par.Variants[i].Label)
		assert.True(t, seq.Variants[i].Score.Equal(par.Variants[i].Score), seq.Variants[i].Label)
	}
	assert.Equal(t, seq.Best.Label, par.Best.Label)
	require.Len(t, calls, 12)
	assert.Equal(t, 12, calls[len(calls)-1])
}

func TestRun(t *testing.T) {
	o := NewOptimizer()
	res, err := o.Run(domain.OptimizeSSClaimAge, testScenario())
	require.NoError(t, err)
	assert.Len(t, res.Variants, 9)

	_, err = o.Run("bogus", testScenario())
	assert.Error(t, err)
}

func TestDefaultConversionSweep(t *testing.T) {
	opts := DefaultConversionSweep(testScenario())
	assert.True(t, opts.AmountMax.Equal(d(300_000)))
	assert.True(t, opts.AmountStep.Equal(d(5_000)))
	assert.Equal(t, 63, opts.EndAgeMin)
	assert.Equal(t, 80, opts.EndAgeMax)
}

func TestComputeRothConversionGrid(t *testing.T) {
	s := testScenario()
	s.RothConversionAmount = d(30_000)
	s.RothConversionEndAge = 66

	g := ComputeRothConversionGrid(s, domain.GridOptions{
		AmountMax:  domain.AmountPtr(d(60_000)),
		AmountStep: d(30_000),
		EndAgeMin:  64,
		EndAgeMax:  68,
		EndAgeStep: 2,
	})

	assert.Len(t, g.Amounts, 3)
	assert.Equal(t, []int{64, 66, 68}, g.EndAges)
	require.Len(t, g.Cells, 9)
	assert.Equal(t, 64, g.Cells[0].EndAge)
	assert.Equal(t, 66, g.Cells[1].EndAge)
	assert.True(t, g.Cells[3].Amount.Equal(d(30_000)))

	for _, c := range g.Cells {
		assert.True(t, c.TANW.GreaterThanOrEqual(g.MinTANW))
		assert.True(t, c.TANW.LessThanOrEqual(g.MaxTANW))
	}
	assert.True(t, g.BestCell.TANW.Equal(g.MaxTANW))

	require.NotNil(t, g.CurrentCell)
	assert.Equal(t, 66, g.CurrentCell.EndAge)
	cell, ok := Cell(g, d(30_000), 66)
	require.True(t, ok)
	assert.True(t, cell.TANW.Equal(g.CurrentCell.TANW))
}

func TestComputeRothConversionGrid_Defaults(t *testing.T) {
	s := testScenario()
	opts := WithGridDefaults(s, domain.GridOptions{})

	require.NotNil(t, opts.AmountMax)
	assert.True(t, opts.AmountMax.Equal(d(300_000)))
	assert.True(t, opts.AmountStep.Equal(d(15_000)))
	assert.Equal(t, 62, opts.EndAgeMin)
	assert.Equal(t, 80, opts.EndAgeMax)
	assert.Equal(t, 2, opts.EndAgeStep)

	s.EndAge = 95
	assert.Equal(t, DefaultGridEndAgeCap, WithGridDefaults(s, domain.GridOptions{}).EndAgeMax)
}

func TestComputeRothConversionGrid_ExplicitZeroAmountMax(t *testing.T) {
	s := testScenario()
	g := ComputeRothConversionGrid(s, domain.GridOptions{
		AmountMax:  domain.AmountPtr(decimal.Zero),
		EndAgeMin:  64,
		EndAgeMax:  66,
		EndAgeStep: 2,
	})

	require.Len(t, g.Amounts, 1)
	assert.True(t, g.Amounts[0].IsZero())
	assert.Len(t, g.Cells, 2)

	explicit := d(45_000)
	opts := WithGridDefaults(s, domain.GridOptions{AmountMax: &explicit})
	assert.True(t, opts.AmountMax.Equal(explicit))
	assert.True(t, opts.AmountStep.Equal(d(15_000)))
}

func TestComputeRothConversionGrid_NoCurrentCell(t *testing.T) {
	s := testScenario()
	s.RothConversionAmount = d(12_345)
	g := ComputeRothConversionGrid(s, domain.GridOptions{AmountMax: domain.AmountPtr(d(30_000)), AmountStep: d(30_000), EndAgeMin: 64, EndAgeMax: 64})
	assert.Nil(t, g.CurrentCell)
	assert.Len(t, g.Cells, 2)
}

func TestCompareWithdrawalStrategies(t *testing.T) {
	s := testScenario()
	res := CompareWithdrawalStrategies(s)

	require.Len(t, res.Strategies, 12)
	assert.True(t, sort.SliceIsSorted(res.Strategies, func(i, j int) bool {
		return res.Strategies[i].TANW.GreaterThan(res.Strategies[j].TANW)
	}))
	assert.True(t, res.Best.TANW.Equal(res.Strategies[0].TANW))
	assert.True(t, res.Worst.TANW.Equal(res.Strategies[11].TANW))

	require.NotNil(t, res.Current)
	assert.Equal(t, "Cash → Taxable → IRA → Roth", res.Current.Label)
}

func TestCompareWithdrawalStrategies_CustomOrderHasNoCurrent(t *testing.T) {
	s := testScenario()
	s.WithdrawalOrder = []domain.AccountType{domain.AccountRoth, domain.AccountIRA, domain.AccountTaxable, domain.AccountCash}
	res := CompareWithdrawalStrategies(s)
	assert.Nil(t, res.Current)
}

func TestScoreStats(t *testing.T) {
	st := scoreStats([]decimal.Decimal{d(10), d(20), d(30)})
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 10, st.Min, 1e-9)
	assert.InDelta(t, 30, st.Max, 1e-9)
	assert.InDelta(t, 20, st.Mean, 1e-9)
	assert.InDelta(t, 10, st.StdDev, 1e-9)
	assert.InDelta(t, 20, st.Spread, 1e-9)

	single := scoreStats([]decimal.Decimal{d(5)})
	assert.Zero(t, single.StdDev)
	assert.Zero(t, scoreStats(nil).Count)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(decimal.Zero))
	assert.Equal(t, "50,000", formatAmount(d(50_000)))
	assert.Equal(t, "1,250,000", formatAmount(d(1_250_000)))
	assert.Equal(t, "1,234.50", formatAmount(d(1234.5)))
}

func TestWorkerPool(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(0).Workers())
	assert.Equal(t, 3, NewWorkerPool(3).Workers())
	assert.Empty(t, NewWorkerPool(2).Evaluate(nil, nil, nil))
}
