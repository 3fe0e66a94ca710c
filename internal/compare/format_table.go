package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	// Limit caps the number of alternatives shown, best first; zero shows all in sweep order
	Limit int
}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	title := compSet.Title
	if title == "" {
		title = "Scenario Comparison"
	}
	sb.WriteString(strings.ToUpper(title) + "\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 36
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Final TANW",
		numWidth, "vs Base",
		numWidth, "Lifetime Tax",
		numWidth, "Shortfall"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, "(base)"))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, idx := range tf.rowOrder(compSet) {
			alt := compSet.AlternativeResults[idx]
			marker := ""
			if idx == compSet.BestIndex {
				marker = "*"
			}
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, marker))
		}
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if compSet.Stats.Count > 1 {
		sb.WriteString(fmt.Sprintf("TANW range across %d candidates: $%s to $%s (spread $%s, std dev $%s)\n",
			compSet.Stats.Count,
			tf.formatFloat(compSet.Stats.Min),
			tf.formatFloat(compSet.Stats.Max),
			tf.formatFloat(compSet.Stats.Spread),
			tf.formatFloat(compSet.Stats.StdDev)))
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}
	return sb.String()
}

// rowOrder returns alternative indices to print
func (tf *TableFormatter) rowOrder(compSet *ComparisonSet) []int {
	idx := make([]int, len(compSet.AlternativeResults))
	for i := range idx {
		idx[i] = i
	}
	if tf.Limit <= 0 || tf.Limit >= len(idx) {
		return idx
	}
	ranked := RankByTANW(compSet.AlternativeResults)
	return ranked[:tf.Limit]
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, marker string) string {
	name := result.ScenarioName
	if marker != "" {
		name += " " + marker
	}

	delta := "-"
	if marker != "(base)" {
		delta = tf.deltaSymbol(result.TANWDiffFromBase) + "$" + tf.formatDecimal(result.TANWDiffFromBase.Abs())
	}
	shortfall := "none"
	if result.HasShortfall {
		shortfall = "$" + tf.formatDecimal(result.TotalShortfall)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.FinalTANW),
		numWidth, delta,
		numWidth, "$"+tf.formatDecimal(result.LifetimeTaxes),
		numWidth, shortfall)
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) formatFloat(f float64) string {
	return tf.formatDecimal(decimal.NewFromFloat(f))
}

// deltaSymbol returns + for gains, - for losses
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a one-line summary of the best alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	best, ok := compSet.Best()
	if !ok {
		return fmt.Sprintf("Base: %s | no alternatives", compSet.BaseScenarioName)
	}
	return fmt.Sprintf("Base: %s | Best: %s (%s$%s TANW)",
		compSet.BaseScenarioName, best.ScenarioName,
		tf.deltaSymbol(best.TANWDiffFromBase), tf.formatDecimal(best.TANWDiffFromBase.Abs()))
}

// FormatGrid renders the conversion grid as a TANW matrix, amounts down and end ages across.
// The best cell is marked with * and the scenario's own cell with [].
func (tf *TableFormatter) FormatGrid(g domain.GridResult) string {
	var sb strings.Builder
	sb.WriteString("ROTH CONVERSION GRID (final TANW)\n")
	sb.WriteString(strings.Repeat("=", 10+11*len(g.EndAges)) + "\n")

	sb.WriteString(fmt.Sprintf("%10s", "Amount"))
	for _, age := range g.EndAges {
		sb.WriteString(fmt.Sprintf(" %10s", fmt.Sprintf("to %d", age)))
	}
	sb.WriteString("\n")

	i := 0
	for _, amount := range g.Amounts {
		sb.WriteString(fmt.Sprintf("%10s", "$"+tf.formatDecimal(amount)))
		for range g.EndAges {
			if i >= len(g.Cells) {
				break
			}
			cell := g.Cells[i]
			i++
			text := tf.formatDecimal(cell.TANW)
			if g.CurrentCell != nil && cell.Amount.Equal(g.CurrentCell.Amount) && cell.EndAge == g.CurrentCell.EndAge {
				text = "[" + text + "]"
			}
			if cell.Amount.Equal(g.BestCell.Amount) && cell.EndAge == g.BestCell.EndAge {
				text += "*"
			}
			sb.WriteString(fmt.Sprintf(" %10s", text))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nBest: convert $%s until age %d -> TANW $%s\n",
		g.BestCell.Amount.StringFixed(0), g.BestCell.EndAge, g.BestCell.TANW.StringFixed(0)))
	return sb.String()
}

// FormatStrategies renders the withdrawal order ranking
func (tf *TableFormatter) FormatStrategies(r domain.WithdrawalComparisonResult) string {
	var sb strings.Builder
	sb.WriteString("WITHDRAWAL STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-4s %-36s %12s %12s %12s\n", "Rank", "Order", "TANW", "Taxes", "Final Total"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for i, s := range r.Strategies {
		label := s.Label
		if r.Current != nil && s.Label == r.Current.Label {
			label += " (current)"
		}
		sb.WriteString(fmt.Sprintf("%-4d %-36s %12s %12s %12s\n", i+1, tf.truncate(label, 36),
			"$"+tf.formatDecimal(s.TANW), "$"+tf.formatDecimal(s.TotalTaxes), "$"+tf.formatDecimal(s.FinalTotal)))
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Best: %s\nWorst: %s (TANW gap $%s)\n",
		r.Best.Label, r.Worst.Label, r.Best.TANW.Sub(r.Worst.TANW).StringFixed(0)))
	return sb.String()
}
