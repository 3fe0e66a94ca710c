package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/optimization"
)

// CompareEngine runs a base scenario next to its alternatives
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	Optimizer         *optimization.Optimizer
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine, opt *optimization.Optimizer) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewEngine()
	}
	if opt == nil {
		opt = optimization.NewOptimizer(optimization.WithEngine(calcEngine))
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		Optimizer:         opt,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareSweep runs an optimization sweep and ranks its variants against the base
func (ce *CompareEngine) CompareSweep(ctx context.Context, base domain.Scenario, t domain.OptimizationType) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opt, err := ce.Optimizer.Run(t, base)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ce.FromOptimization(base, opt), nil
}

// FromOptimization builds a comparison set from a finished sweep
func (ce *CompareEngine) FromOptimization(base domain.Scenario, opt domain.OptimizationResult) *ComparisonSet {
	baseRes := ce.CalcEngine.RunSimulation(base)
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName(base), baseRes)

	alternatives := make([]ComparisonResult, 0, len(opt.Variants))
	bestIndex := -1
	for i, v := range opt.Variants {
		alt := ce.MetricsCalculator.FromSummary(v.Label, v.Scenario, v.Summary)
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
		if opt.Best != nil && bestIndex < 0 && v.Label == opt.Best.Label {
			bestIndex = i
		}
	}

	compSet := &ComparisonSet{
		Title:              sweepTitle(opt.Type),
		BaseScenarioName:   baseResult.ScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		BestIndex:          bestIndex,
		Stats:              opt.Stats,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

// CompareScenarios compares explicit scenarios, e.g. several saved plans
func (ce *CompareEngine) CompareScenarios(ctx context.Context, base domain.Scenario, alternatives []domain.Scenario) (*ComparisonSet, error) {
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName(base), ce.CalcEngine.RunSimulation(base))

	results := make([]ComparisonResult, 0, len(alternatives))
	bestIndex := -1
	for i, alt := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comparison cancelled: %w", err)
		}
		name := alt.Name
		if name == "" {
			name = fmt.Sprintf("Alternative %d", i+1)
		}
		r := ce.MetricsCalculator.CalculateMetrics(name, ce.CalcEngine.RunSimulation(alt))
		r = ce.MetricsCalculator.CalculateComparison(r, baseResult)
		results = append(results, r)
		if bestIndex < 0 || r.FinalTANW.GreaterThan(results[bestIndex].FinalTANW) {
			bestIndex = i
		}
	}

	compSet := &ComparisonSet{
		Title:              "Scenario Comparison",
		BaseScenarioName:   baseResult.ScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: results,
		BestIndex:          bestIndex,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func baseName(s domain.Scenario) string {
	if s.Name == "" {
		return "Current plan"
	}
	return s.Name
}

func sweepTitle(t domain.OptimizationType) string {
	switch t {
	case domain.OptimizeConversion:
		return "Roth Conversion Optimization"
	case domain.OptimizeWithdrawalOrder:
		return "Withdrawal Order Comparison"
	case domain.OptimizeSSClaimAge:
		return "Social Security Claim Age Comparison"
	default:
		return "Optimization"
	}
}
