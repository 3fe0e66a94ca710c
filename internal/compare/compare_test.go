package compare

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/optimization"
	"github.com/shopspring/decimal"
)

func shortScenario() domain.Scenario {
	s := config.DefaultScenario()
	s.Name = "Base Plan"
	s.EndAge = 80
	return s
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		ScenarioName:  "Base",
		FinalTANW:     decimal.NewFromInt(2000000),
		LifetimeTaxes: decimal.NewFromInt(500000),
	}
	alt := ComparisonResult{
		ScenarioName:  "Alternative",
		FinalTANW:     decimal.NewFromInt(2100000),
		LifetimeTaxes: decimal.NewFromInt(450000),
	}

	result := calc.CalculateComparison(alt, base)

	if !result.TANWDiffFromBase.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Expected TANW diff 100000, got %s", result.TANWDiffFromBase)
	}
	if !result.TANWPctFromBase.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected TANW pct 5, got %s", result.TANWPctFromBase)
	}
	if !result.TaxDiffFromBase.Equal(decimal.NewFromInt(-50000)) {
		t.Errorf("Expected tax diff -50000, got %s", result.TaxDiffFromBase)
	}
}

func TestMetricsCalculator_ZeroBase(t *testing.T) {
	calc := NewMetricsCalculator()
	result := calc.CalculateComparison(ComparisonResult{FinalTANW: decimal.NewFromInt(10)}, ComparisonResult{})
	if !result.TANWPctFromBase.IsZero() {
		t.Errorf("Expected zero pct change against a zero base, got %s", result.TANWPctFromBase)
	}
}

func TestCompareEngine_CompareSweep(t *testing.T) {
	ce := NewCompareEngine(nil, optimization.NewOptimizer(optimization.WithWorkers(2)))
	set, err := ce.CompareSweep(context.Background(), shortScenario(), domain.OptimizeSSClaimAge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.BaseScenarioName != "Base Plan" {
		t.Errorf("Expected base name 'Base Plan', got %s", set.BaseScenarioName)
	}
	if len(set.AlternativeResults) != 9 {
		t.Fatalf("Expected 9 alternatives, got %d", len(set.AlternativeResults))
	}
	best, ok := set.Best()
	if !ok {
		t.Fatal("Expected a best alternative")
	}
	for _, alt := range set.AlternativeResults {
		if alt.FinalTANW.GreaterThan(best.FinalTANW) {
			t.Errorf("%s beats the reported best %s", alt.ScenarioName, best.ScenarioName)
		}
	}
	if set.Stats.Count != 9 {
		t.Errorf("Expected stats over 9 candidates, got %d", set.Stats.Count)
	}
	if len(set.Recommendations) == 0 {
		t.Error("Expected at least one recommendation")
	}

	// claiming at 67 is the base's own choice, so its delta is zero
	claim67 := set.AlternativeResults[5]
	if claim67.SSClaimAge != 67 || !claim67.TANWDiffFromBase.IsZero() {
		t.Errorf("Expected zero delta for the base claim age, got age %d diff %s", claim67.SSClaimAge, claim67.TANWDiffFromBase)
	}
}

func TestCompareEngine_CompareSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCompareEngine(nil, nil).CompareSweep(ctx, shortScenario(), domain.OptimizeSSClaimAge)
	if err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	base := shortScenario()
	richer := base.Clone()
	richer.Name = ""
	richer.CashBalance = richer.CashBalance.Add(decimal.NewFromInt(500000))

	set, err := NewCompareEngine(nil, nil).CompareScenarios(context.Background(), base, []domain.Scenario{richer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.AlternativeResults) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(set.AlternativeResults))
	}
	alt := set.AlternativeResults[0]
	if alt.ScenarioName != "Alternative 1" {
		t.Errorf("Expected generated name, got %s", alt.ScenarioName)
	}
	if !alt.TANWDiffFromBase.IsPositive() {
		t.Errorf("Expected extra cash to raise TANW, got diff %s", alt.TANWDiffFromBase)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	base := &ComparisonResult{ScenarioName: "Base", FinalTANW: decimal.NewFromInt(100), LifetimeTaxes: decimal.NewFromInt(50), HasShortfall: true}
	set := &ComparisonSet{
		BaseResult: base,
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "A", FinalTANW: decimal.NewFromInt(150), LifetimeTaxes: decimal.NewFromInt(40)},
			{ScenarioName: "B", FinalTANW: decimal.NewFromInt(120), LifetimeTaxes: decimal.NewFromInt(10), HasShortfall: true},
		},
		BestIndex: 0,
	}

	recs := GenerateRecommendations(set)
	if len(recs) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "Best TANW: A adds $50") {
		t.Errorf("unexpected best recommendation: %s", recs[0])
	}
	// B has lower taxes but a shortfall, so A is reported
	if !strings.Contains(recs[1], "Lowest Taxes: A saves $10") {
		t.Errorf("unexpected tax recommendation: %s", recs[1])
	}
	if !strings.Contains(recs[2], "Avoid Shortfall: A") {
		t.Errorf("unexpected shortfall recommendation: %s", recs[2])
	}

	if got := GenerateRecommendations(&ComparisonSet{BaseResult: base, BestIndex: -1}); len(got) != 0 {
		t.Errorf("Expected no recommendations without alternatives, got %v", got)
	}
}

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		Title:            "Withdrawal Order Comparison",
		BaseScenarioName: "Base Scenario",
		BaseResult: &ComparisonResult{
			ScenarioName:  "Base Scenario",
			FinalTANW:     decimal.NewFromInt(3000000),
			LifetimeTaxes: decimal.NewFromInt(500000),
		},
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "Cash → IRA → Taxable → Roth", FinalTANW: decimal.NewFromInt(3100000), TANWDiffFromBase: decimal.NewFromInt(100000)},
			{ScenarioName: "Roth → Cash → Taxable → IRA", FinalTANW: decimal.NewFromInt(2900000), TANWDiffFromBase: decimal.NewFromInt(-100000),
				HasShortfall: true, TotalShortfall: decimal.NewFromInt(2500)},
		},
		BestIndex:       0,
		Stats:           domain.ScoreStats{Count: 2, Min: 2900000, Max: 3100000, Spread: 200000, StdDev: 141421},
		Recommendations: []string{"Best TANW: Cash → IRA → Taxable → Roth adds $100000"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	for _, want := range []string{
		"WITHDRAWAL ORDER COMPARISON",
		"Base Scenario: Base Scenario",
		"Base Scenario (base)",
		"Cash → IRA → Taxable → Roth *",
		"+$100.0K",
		"-$100.0K",
		"$2.5K",
		"TANW range across 2 candidates",
		"RECOMMENDATIONS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Limit(t *testing.T) {
	out := (&TableFormatter{Limit: 1}).Format(sampleSet())
	if strings.Contains(out, "Roth → Cash") {
		t.Error("Expected the weaker alternative to be cut by the limit")
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	tf := &TableFormatter{}
	if got := tf.FormatCompact(sampleSet()); !strings.Contains(got, "Best: Cash → IRA → Taxable → Roth (+$100.0K TANW)") {
		t.Errorf("unexpected compact output: %s", got)
	}
	if got := tf.FormatCompact(&ComparisonSet{BaseScenarioName: "X", BestIndex: -1}); !strings.Contains(got, "no alternatives") {
		t.Errorf("unexpected compact output: %s", got)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d", len(records))
	}
	if records[1][1] != "base" || records[2][1] != "best" || records[3][1] != "alternative" {
		t.Errorf("unexpected row types: %v %v %v", records[1][1], records[2][1], records[3][1])
	}
	if records[2][2] != "3100000.00" {
		t.Errorf("Expected TANW 3100000.00, got %s", records[2][2])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back ComparisonSet
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(back.AlternativeResults) != 2 || back.BestIndex != 0 {
		t.Errorf("unexpected round trip: %+v", back)
	}
}

func TestGridAndStrategyFormatters(t *testing.T) {
	s := shortScenario()
	s.RothConversionAmount = decimal.NewFromInt(50000)
	s.RothConversionEndAge = 66
	grid := optimization.ComputeRothConversionGrid(s, domain.GridOptions{
		AmountMax: domain.AmountPtr(decimal.NewFromInt(100000)), AmountStep: decimal.NewFromInt(50000),
		EndAgeMin: 64, EndAgeMax: 66, EndAgeStep: 2,
	})

	table := (&TableFormatter{}).FormatGrid(grid)
	if !strings.Contains(table, "to 64") || !strings.Contains(table, "to 66") {
		t.Errorf("Expected end age columns:\n%s", table)
	}
	if !strings.Contains(table, "[") || !strings.Contains(table, "*") {
		t.Errorf("Expected current and best markers:\n%s", table)
	}

	gridCSV, err := (&CSVFormatter{}).FormatGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Count(gridCSV, "\n"); lines != 7 {
		t.Errorf("Expected header + 6 cells, got %d lines", lines)
	}

	strategies := optimization.CompareWithdrawalStrategies(s)
	st := (&TableFormatter{}).FormatStrategies(strategies)
	if !strings.Contains(st, "(current)") || !strings.Contains(st, "Best: ") {
		t.Errorf("unexpected strategies table:\n%s", st)
	}
	stCSV, err := (&CSVFormatter{}).FormatStrategies(strategies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Count(stCSV, "\n"); lines != 13 {
		t.Errorf("Expected header + 12 rows, got %d lines", lines)
	}
}

func TestRankByTANW(t *testing.T) {
	results := []ComparisonResult{
		{FinalTANW: decimal.NewFromInt(1)},
		{FinalTANW: decimal.NewFromInt(3)},
		{FinalTANW: decimal.NewFromInt(3)},
		{FinalTANW: decimal.NewFromInt(2)},
	}
	got := RankByTANW(results)
	want := []int{1, 2, 3, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}
