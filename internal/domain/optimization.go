package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OptimizationType names a parameter sweep
type OptimizationType string

const (
	OptimizeConversion      OptimizationType = "conversion"
	OptimizeWithdrawalOrder OptimizationType = "withdrawal"
	OptimizeSSClaimAge      OptimizationType = "ss"
)

// ParseOptimizationType accepts the short names used by the CLI and API
func ParseOptimizationType(s string) (OptimizationType, error) {
	switch s {
	case "conversion", "roth", "roth-conversion":
		return OptimizeConversion, nil
	case "withdrawal", "withdrawal-order", "order":
		return OptimizeWithdrawalOrder, nil
	case "ss", "social-security", "claim-age":
		return OptimizeSSClaimAge, nil
	default:
		return "", fmt.Errorf("unknown optimization type: %q", s)
	}
}

// OptimizationVariant is one evaluated candidate of a sweep
type OptimizationVariant struct {
	Label    string          `json:"label"`
	Scenario Scenario        `json:"scenario"`
	Summary  Summary         `json:"summary"`
	Score    decimal.Decimal `json:"score"`
}

// ScoreStats describes the spread of candidate scores
type ScoreStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Spread float64 `json:"spread"`
}

// OptimizationResult holds every candidate of a sweep in evaluation order plus the best one
type OptimizationResult struct {
	Type         OptimizationType      `json:"type"`
	Variants     []OptimizationVariant `json:"variants"`
	Best         *OptimizationVariant  `json:"best,omitempty"`
	BestScenario Scenario              `json:"bestScenario"`
	BestScore    decimal.Decimal       `json:"bestScore"`
	Stats        ScoreStats            `json:"stats"`
}

// ConversionSweepOptions bounds the Roth conversion sweep. Ranges are inclusive.
type ConversionSweepOptions struct {
	AmountMin  decimal.Decimal `json:"amountMin"`
	AmountMax  decimal.Decimal `json:"amountMax"`
	AmountStep decimal.Decimal `json:"amountStep"`
	EndAgeMin  int             `json:"endAgeMin"`
	EndAgeMax  int             `json:"endAgeMax"`
	EndAgeStep int             `json:"endAgeStep"`
}

// GridOptions bounds the conversion heatmap grid. A nil AmountMax takes the
// default maximum, so an explicit zero sweeps only the zero amount. Zero steps,
// a zero EndAgeMax and an EndAgeMin of 0 are never meaningful and take defaults.
type GridOptions struct {
	AmountMin  decimal.Decimal  `json:"amountMin"`
	AmountMax  *decimal.Decimal `json:"amountMax,omitempty"`
	AmountStep decimal.Decimal  `json:"amountStep"`
	EndAgeMin  int              `json:"endAgeMin"`
	EndAgeMax  int              `json:"endAgeMax"`
	EndAgeStep int              `json:"endAgeStep"`
}

// AmountPtr returns a pointer to a copy of v, for optional amounts
func AmountPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

// GridCell is a single (amount, end age) evaluation
type GridCell struct {
	Amount decimal.Decimal `json:"amount"`
	EndAge int             `json:"endAge"`
	TANW   decimal.Decimal `json:"tanw"`
}

// GridResult is the dense conversion grid used for heatmaps
type GridResult struct {
	Cells       []GridCell        `json:"cells"`
	Amounts     []decimal.Decimal `json:"amounts"`
	EndAges     []int             `json:"endAges"`
	MinTANW     decimal.Decimal   `json:"minTanw"`
	MaxTANW     decimal.Decimal   `json:"maxTanw"`
	BestCell    GridCell          `json:"bestCell"`
	CurrentCell *GridCell         `json:"currentCell,omitempty"`
}

// WithdrawalStrategyResult is one ordering's headline numbers
type WithdrawalStrategyResult struct {
	Label      string          `json:"label"`
	Order      []AccountType   `json:"order"`
	TANW       decimal.Decimal `json:"tanw"`
	TotalTaxes decimal.Decimal `json:"totalTaxes"`
	FinalTotal decimal.Decimal `json:"finalTotal"`
}

// WithdrawalComparisonResult ranks the curated orderings
type WithdrawalComparisonResult struct {
	Strategies []WithdrawalStrategyResult `json:"strategies"`
	Best       WithdrawalStrategyResult   `json:"best"`
	Worst      WithdrawalStrategyResult   `json:"worst"`
	Current    *WithdrawalStrategyResult  `json:"current,omitempty"`
}
