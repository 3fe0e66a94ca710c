package compare

import (
	"fmt"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one scenario's headline metrics, optionally relative to a base
type ComparisonResult struct {
	ScenarioName string          `json:"scenarioName"`
	Scenario     domain.Scenario `json:"-"`
	Summary      domain.Summary  `json:"summary"`

	// Key Metrics
	FinalTANW       decimal.Decimal `json:"finalTanw"`
	FinalTotal      decimal.Decimal `json:"finalTotal"`
	LifetimeTaxes   decimal.Decimal `json:"lifetimeTaxes"`
	TotalConverted  decimal.Decimal `json:"totalConverted"`
	TotalShortfall  decimal.Decimal `json:"totalShortfall"`
	DepletionAge    int             `json:"depletionAge,omitempty"` // first age with a spending shortfall
	HasShortfall    bool            `json:"hasShortfall"`
	WorstShortfall  *int            `json:"worstShortfallAge,omitempty"`
	SSClaimAge      int             `json:"ssClaimAge"`
	WithdrawalOrder string          `json:"withdrawalOrder"`

	// Comparison to Base
	TANWDiffFromBase decimal.Decimal `json:"tanwDiffFromBase"`
	TANWPctFromBase  decimal.Decimal `json:"tanwPctFromBase"`
	TaxDiffFromBase  decimal.Decimal `json:"taxDiffFromBase"`
}

// ComparisonSet is a base scenario against its alternatives
type ComparisonSet struct {
	Title              string             `json:"title"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	BestIndex          int                `json:"bestIndex"` // into AlternativeResults, -1 when empty
	Stats              domain.ScoreStats  `json:"stats"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// Best returns the best alternative, if any
func (cs *ComparisonSet) Best() (ComparisonResult, bool) {
	if cs.BestIndex < 0 || cs.BestIndex >= len(cs.AlternativeResults) {
		return ComparisonResult{}, false
	}
	return cs.AlternativeResults[cs.BestIndex], true
}

// MetricsCalculator extracts key metrics from simulation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a run
func (mc *MetricsCalculator) CalculateMetrics(name string, res *domain.SimulationResult) ComparisonResult {
	result := mc.FromSummary(name, res.Scenario, res.Summary)
	for _, row := range res.YearRows {
		if row.SpendingShortfall.IsPositive() {
			result.DepletionAge = row.Age
			break
		}
	}
	return result
}

// FromSummary builds metrics when only the summary is available, as with sweep variants
func (mc *MetricsCalculator) FromSummary(name string, s domain.Scenario, sum domain.Summary) ComparisonResult {
	shortfall := sum.TotalSpendingShortfall.Add(sum.TotalTaxShortfall)
	return ComparisonResult{
		ScenarioName:    name,
		Scenario:        s,
		Summary:         sum,
		FinalTANW:       sum.FinalTANW,
		FinalTotal:      sum.FinalTotal,
		LifetimeTaxes:   sum.TotalTaxesPaid,
		TotalConverted:  sum.TotalConverted,
		TotalShortfall:  shortfall,
		HasShortfall:    shortfall.IsPositive(),
		WorstShortfall:  sum.WorstShortfallAge,
		SSClaimAge:      s.SSClaimAge,
		WithdrawalOrder: sequencing.Label(s.WithdrawalOrder),
	}
}

// CalculateComparison computes deltas between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TANWDiffFromBase = scenario.FinalTANW.Sub(base.FinalTANW)
	if !base.FinalTANW.IsZero() {
		scenario.TANWPctFromBase = scenario.TANWDiffFromBase.
			Div(base.FinalTANW.Abs()).
			Mul(decimal.NewFromInt(100))
	}
	scenario.TaxDiffFromBase = scenario.LifetimeTaxes.Sub(base.LifetimeTaxes)
	return scenario
}

// GenerateRecommendations summarizes what the alternatives gain over the base
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	if best, ok := compSet.Best(); ok {
		if best.FinalTANW.GreaterThan(base.FinalTANW) {
			recommendations = append(recommendations, fmt.Sprintf(
				"Best TANW: %s adds $%s of tax-adjusted net worth over the current plan",
				best.ScenarioName, best.FinalTANW.Sub(base.FinalTANW).StringFixed(0)))
		} else {
			recommendations = append(recommendations, "Current plan already matches the best alternative on TANW")
		}
	}

	lowestTax := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.HasShortfall {
			continue
		}
		if lowestTax < 0 || alt.LifetimeTaxes.LessThan(compSet.AlternativeResults[lowestTax].LifetimeTaxes) {
			lowestTax = i
		}
	}
	if lowestTax >= 0 {
		alt := compSet.AlternativeResults[lowestTax]
		if alt.LifetimeTaxes.LessThan(base.LifetimeTaxes) {
			recommendations = append(recommendations, fmt.Sprintf(
				"Lowest Taxes: %s saves $%s in lifetime taxes without a shortfall",
				alt.ScenarioName, base.LifetimeTaxes.Sub(alt.LifetimeTaxes).StringFixed(0)))
		}
	}

	if base.HasShortfall {
		for _, alt := range compSet.AlternativeResults {
			if !alt.HasShortfall {
				recommendations = append(recommendations, fmt.Sprintf(
					"Avoid Shortfall: %s funds every year in full", alt.ScenarioName))
				break
			}
		}
	}
	return recommendations
}
