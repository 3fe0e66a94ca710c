package optimization

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Grid defaults
const (
	DefaultGridEndAgeCap  = 85
	DefaultGridEndAgeStep = 2
)

var (
	defaultGridAmountMax  = decimal.NewFromInt(300_000)
	defaultGridAmountStep = decimal.NewFromInt(15_000)
)

// ComputeRothConversionGrid evaluates every (amount, end age) pair for heatmaps
func ComputeRothConversionGrid(s domain.Scenario, opts domain.GridOptions) domain.GridResult {
	return NewOptimizer().ComputeRothConversionGrid(s, opts)
}

// WithGridDefaults fills unset options with the standard grid. The returned
// AmountMax is always non-nil.
func WithGridDefaults(s domain.Scenario, opts domain.GridOptions) domain.GridOptions {
	if opts.AmountMax == nil {
		opts.AmountMax = domain.AmountPtr(defaultGridAmountMax)
	}
	if opts.AmountStep.IsZero() {
		opts.AmountStep = defaultGridAmountStep
	}
	if opts.EndAgeMin == 0 {
		opts.EndAgeMin = s.StartAge
	}
	if opts.EndAgeMax == 0 {
		opts.EndAgeMax = s.EndAge
		if opts.EndAgeMax > DefaultGridEndAgeCap {
			opts.EndAgeMax = DefaultGridEndAgeCap
		}
	}
	if opts.EndAgeStep == 0 {
		opts.EndAgeStep = DefaultGridEndAgeStep
	}
	return opts
}

// ComputeRothConversionGrid evaluates every (amount, end age) pair for heatmaps.
// Cells are ordered amount-major. CurrentCell is set when the scenario's own
// amount and end age fall on the grid.
func (o *Optimizer) ComputeRothConversionGrid(s domain.Scenario, opts domain.GridOptions) domain.GridResult {
	opts = WithGridDefaults(s, opts)
	amounts := amountSteps(opts.AmountMin, *opts.AmountMax, opts.AmountStep)
	endAges := ageSteps(opts.EndAgeMin, opts.EndAgeMax, opts.EndAgeStep)

	candidates := make([]candidate, 0, len(amounts)*len(endAges))
	for _, amount := range amounts {
		for _, endAge := range endAges {
			c := s.Clone()
			c.RothConversionAmount = amount
			c.RothConversionEndAge = endAge
			candidates = append(candidates, candidate{scenario: c})
		}
	}
	summaries := o.pool.Evaluate(o.engine, candidates, o.progress)

	result := domain.GridResult{
		Cells:    make([]domain.GridCell, 0, len(candidates)),
		Amounts:  amounts,
		EndAges:  endAges,
		BestCell: domain.GridCell{Amount: decimal.Zero, EndAge: opts.EndAgeMin, TANW: decimal.Zero},
	}
	for i, c := range candidates {
		cell := domain.GridCell{
			Amount: c.scenario.RothConversionAmount,
			EndAge: c.scenario.RothConversionEndAge,
			TANW:   summaries[i].FinalTANW,
		}
		result.Cells = append(result.Cells, cell)

		if i == 0 || cell.TANW.LessThan(result.MinTANW) {
			result.MinTANW = cell.TANW
		}
		if i == 0 || cell.TANW.GreaterThan(result.MaxTANW) {
			result.MaxTANW = cell.TANW
			result.BestCell = cell
		}
		if cell.Amount.Equal(s.RothConversionAmount) && cell.EndAge == s.RothConversionEndAge {
			current := cell
			result.CurrentCell = &current
		}
	}
	return result
}

// Cell looks up the cell for an amount and end age
func Cell(g domain.GridResult, amount decimal.Decimal, endAge int) (domain.GridCell, bool) {
	for _, c := range g.Cells {
		if c.EndAge == endAge && c.Amount.Equal(amount) {
			return c, true
		}
	}
	return domain.GridCell{}, false
}
