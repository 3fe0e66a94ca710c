// Package optimization sweeps scenario parameters through the simulation engine and
// ranks candidates by final tax-adjusted net worth (TANW).
package optimization

import (
	"fmt"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Claim ages swept by CompareSSClaimAges
const (
	MinClaimAge = 62
	MaxClaimAge = 70
)

// Optimizer runs parameter sweeps. The zero configuration evaluates candidates
// sequentially on the calling goroutine.
type Optimizer struct {
	engine   *calculation.Engine
	pool     *WorkerPool
	progress ProgressFunc
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithWorkers evaluates candidates on n goroutines. Result order is unaffected.
func WithWorkers(n int) Option {
	return func(o *Optimizer) { o.pool = NewWorkerPool(n) }
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithEngine uses a preconfigured engine, e.g. one with a logger attached
func WithEngine(e *calculation.Engine) Option {
	return func(o *Optimizer) {
		if e != nil {
			o.engine = e
		}
	}
}

// NewOptimizer creates an optimizer
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		engine: calculation.NewEngine(),
		pool:   NewWorkerPool(1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OptimizeRothConversion sweeps conversion amount (outer) and end age (inner)
func OptimizeRothConversion(s domain.Scenario, opts domain.ConversionSweepOptions) domain.OptimizationResult {
	return NewOptimizer().OptimizeRothConversion(s, opts)
}

// CompareWithdrawalOrders evaluates the curated withdrawal orders
func CompareWithdrawalOrders(s domain.Scenario) domain.OptimizationResult {
	return NewOptimizer().CompareWithdrawalOrders(s)
}

// CompareSSClaimAges evaluates claim ages 62 through 70
func CompareSSClaimAges(s domain.Scenario) domain.OptimizationResult {
	return NewOptimizer().CompareSSClaimAges(s)
}

// DefaultConversionSweep spans $0-$300k in $5k steps, ending between the
// scenario's conversion start age and 80
func DefaultConversionSweep(s domain.Scenario) domain.ConversionSweepOptions {
	startAge := s.RothConversionStartAge
	if startAge < s.StartAge {
		startAge = s.StartAge
	}
	endAgeMax := 80
	if endAgeMax < startAge {
		endAgeMax = startAge
	}
	return domain.ConversionSweepOptions{
		AmountMin:  decimal.Zero,
		AmountMax:  decimal.NewFromInt(300_000),
		AmountStep: decimal.NewFromInt(5_000),
		EndAgeMin:  startAge,
		EndAgeMax:  endAgeMax,
		EndAgeStep: 1,
	}
}

// OptimizeRothConversion sweeps conversion amount (outer) and end age (inner)
func (o *Optimizer) OptimizeRothConversion(s domain.Scenario, opts domain.ConversionSweepOptions) domain.OptimizationResult {
	amounts := amountSteps(opts.AmountMin, opts.AmountMax, opts.AmountStep)
	endAges := ageSteps(opts.EndAgeMin, opts.EndAgeMax, opts.EndAgeStep)

	candidates := make([]candidate, 0, len(amounts)*len(endAges))
	for _, amount := range amounts {
		for _, endAge := range endAges {
			c := s.Clone()
			c.RothConversionAmount = amount
			c.RothConversionEndAge = endAge
			candidates = append(candidates, candidate{
				label:    fmt.Sprintf("Convert $%s until age %d", formatAmount(amount), endAge),
				scenario: c,
			})
		}
	}
	return o.rank(domain.OptimizeConversion, s, candidates)
}

// CompareWithdrawalOrders evaluates the curated withdrawal orders
func (o *Optimizer) CompareWithdrawalOrders(s domain.Scenario) domain.OptimizationResult {
	orders := sequencing.CommonWithdrawalOrders()
	candidates := make([]candidate, 0, len(orders))
	for _, named := range orders {
		c := s.Clone()
		c.WithdrawalOrder = named.Order
		candidates = append(candidates, candidate{label: named.Label, scenario: c})
	}
	return o.rank(domain.OptimizeWithdrawalOrder, s, candidates)
}

// CompareSSClaimAges evaluates claim ages 62 through 70
func (o *Optimizer) CompareSSClaimAges(s domain.Scenario) domain.OptimizationResult {
	candidates := make([]candidate, 0, MaxClaimAge-MinClaimAge+1)
	for age := MinClaimAge; age <= MaxClaimAge; age++ {
		c := s.Clone()
		c.SSClaimAge = age
		candidates = append(candidates, candidate{label: fmt.Sprintf("Claim at %d", age), scenario: c})
	}
	return o.rank(domain.OptimizeSSClaimAge, s, candidates)
}

// Run dispatches a sweep by type using default ranges
func (o *Optimizer) Run(t domain.OptimizationType, s domain.Scenario) (domain.OptimizationResult, error) {
	switch t {
	case domain.OptimizeConversion:
		return o.OptimizeRothConversion(s, DefaultConversionSweep(s)), nil
	case domain.OptimizeWithdrawalOrder:
		return o.CompareWithdrawalOrders(s), nil
	case domain.OptimizeSSClaimAge:
		return o.CompareSSClaimAges(s), nil
	default:
		return domain.OptimizationResult{}, fmt.Errorf("unsupported optimization type: %q", t)
	}
}

// rank evaluates candidates and picks the first highest score. With no
// candidates the base scenario is reported as best with a zero score.
func (o *Optimizer) rank(t domain.OptimizationType, base domain.Scenario, candidates []candidate) domain.OptimizationResult {
	summaries := o.pool.Evaluate(o.engine, candidates, o.progress)

	result := domain.OptimizationResult{
		Type:         t,
		Variants:     make([]domain.OptimizationVariant, len(candidates)),
		BestScenario: base.Clone(),
	}
	scores := make([]decimal.Decimal, len(candidates))
	bestIdx := -1
	for i, c := range candidates {
		score := summaries[i].FinalTANW
		scores[i] = score
		result.Variants[i] = domain.OptimizationVariant{
			Label:    c.label,
			Scenario: c.scenario,
			Summary:  summaries[i],
			Score:    score,
		}
		if bestIdx < 0 || score.GreaterThan(scores[bestIdx]) {
			bestIdx = i
		}
	}

	if bestIdx >= 0 {
		best := result.Variants[bestIdx]
		result.Best = &best
		result.BestScenario = best.Scenario.Clone()
		result.BestScore = best.Score
	}
	result.Stats = scoreStats(scores)
	return result
}

// amountSteps lists min, min+step, ... <= max. A non-positive step yields just min.
func amountSteps(min, max, step decimal.Decimal) []decimal.Decimal {
	if min.GreaterThan(max) {
		return nil
	}
	if !step.IsPositive() {
		return []decimal.Decimal{min}
	}
	var out []decimal.Decimal
	for a := min; a.LessThanOrEqual(max); a = a.Add(step) {
		out = append(out, a)
	}
	return out
}

// ageSteps lists min, min+step, ... <= max. A non-positive step defaults to 1.
func ageSteps(min, max, step int) []int {
	if step <= 0 {
		step = 1
	}
	var out []int
	for age := min; age <= max; age += step {
		out = append(out, age)
	}
	return out
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders whole dollars with thousands separators, e.g. 50,000
func formatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return amountPrinter.Sprintf("%d", d.IntPart())
	}
	return amountPrinter.Sprintf("%.2f", d.InexactFloat64())
}
