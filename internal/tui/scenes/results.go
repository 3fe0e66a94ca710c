// Package scenes implements the individual TUI screens.
package scenes

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/output"
	"github.com/rgehrsitz/rothsim/internal/tui/components"
	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

var resultColumns = []table.Column{
	{Title: "Age", Width: 4},
	{Title: "Spending", Width: 9},
	{Title: "SS", Width: 8},
	{Title: "Convert", Width: 8},
	{Title: "RMD", Width: 8},
	{Title: "Taxes", Width: 8},
	{Title: "IRA", Width: 9},
	{Title: "Roth", Width: 9},
	{Title: "Taxable", Width: 9},
	{Title: "Cash", Width: 9},
	{Title: "TANW", Width: 9},
	{Title: "Short", Width: 8},
}

// ResultsModel shows the headline metrics and the year table
type ResultsModel struct {
	result    *domain.SimulationResult
	table     table.Model
	showChart bool
	width     int
	height    int
}

// NewResultsModel creates an empty results scene
func NewResultsModel() *ResultsModel {
	t := table.New(table.WithColumns(resultColumns), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(tuistyles.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(tuistyles.ColorForeground).
		Background(tuistyles.ColorPrimary)
	t.SetStyles(styles)
	return &ResultsModel{table: t}
}

// SetResult replaces the displayed run, keeping the cursor where possible
func (m *ResultsModel) SetResult(res *domain.SimulationResult) {
	m.result = res
	rows := make([]table.Row, 0, len(res.YearRows))
	for _, r := range res.YearRows {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Age),
			output.FormatCompact(r.SpendingNeed),
			output.FormatCompact(r.SSGross),
			output.FormatCompact(r.RothConversion),
			output.FormatCompact(r.RMDRequired),
			output.FormatCompact(r.TaxOwedTotal),
			output.FormatCompact(r.IRAEnd),
			output.FormatCompact(r.RothEnd),
			output.FormatCompact(r.TaxableEnd),
			output.FormatCompact(r.CashEnd),
			output.FormatCompact(r.TANW),
			output.FormatCompact(r.SpendingShortfall),
		})
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		m.table.SetCursor(0)
	}
}

// SetSize fits the table below the metric cards
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if h := height - 14; h > 5 {
		m.table.SetHeight(h)
	}
}

// SelectedAge is the age under the cursor, or false when there is no result
func (m *ResultsModel) SelectedAge() (int, bool) {
	if m.result == nil || len(m.result.YearRows) == 0 {
		return 0, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.YearRows) {
		return 0, false
	}
	return m.result.YearRows[i].Age, true
}

// ToggleChart switches between the year table and the balance chart
func (m *ResultsModel) ToggleChart() {
	m.showChart = !m.showChart
}

// Update moves the table cursor; "c" toggles the chart
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, key.NewBinding(key.WithKeys("c"))) {
		m.ToggleChart()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.SubtitleStyle.Render("No results yet.")
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Simulation Results"),
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s, ages %d-%d", displayName(m.result.Scenario), m.result.Scenario.StartAge, m.result.Scenario.EndAge)),
	)

	body := m.table.View()
	if m.showChart {
		body = m.renderChart()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.renderMetrics(),
		"",
		body,
		"",
		tuistyles.HelpStyle.Render("↑/↓ select year • enter ledger • c chart"),
	)
}

func (m *ResultsModel) renderMetrics() string {
	sum := m.result.Summary
	shortfall := components.NewMetricCard("Spending Shortfall", output.FormatWhole(sum.TotalSpendingShortfall))
	if sum.WorstShortfallAge != nil {
		shortfall.WithDescription(fmt.Sprintf("worst at age %d", *sum.WorstShortfallAge))
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Final TANW", output.FormatWhole(sum.FinalTANW)),
		components.NewMetricCard("Final Balance", output.FormatWhole(sum.FinalTotal)),
		components.NewMetricCard("Lifetime Taxes", output.FormatWhole(sum.TotalTaxesPaid)),
		components.NewMetricCard("Converted", output.FormatWhole(sum.TotalConverted)),
		shortfall,
	}
	cols := 5
	if m.width > 0 && m.width < 140 {
		cols = 3
	}
	return components.MetricGrid(cards, cols)
}

func (m *ResultsModel) renderChart() string {
	rows := m.result.YearRows
	ira := make([]float64, len(rows))
	roth := make([]float64, len(rows))
	taxable := make([]float64, len(rows))
	cash := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		ira[i] = r.IRAEnd.InexactFloat64()
		roth[i] = r.RothEnd.InexactFloat64()
		taxable[i] = r.TaxableEnd.InexactFloat64()
		cash[i] = r.CashEnd.InexactFloat64()
		labels[i] = strconv.Itoa(r.Age)
	}

	width := 72
	if m.width > 20 {
		width = m.width - 8
	}
	height := 12
	if m.height > 26 {
		height = m.height - 22
	}

	return components.NewLineChart("Balances by Age").
		AddSeries("IRA", ira, tuistyles.ColorIRA).
		AddSeries("Roth", roth, tuistyles.ColorRoth).
		AddSeries("Taxable", taxable, tuistyles.ColorTaxable).
		AddSeries("Cash", cash, tuistyles.ColorCash).
		WithLabels(labels).
		WithSize(width, height).
		Render()
}

func displayName(s domain.Scenario) string {
	if s.Name == "" {
		return "Scenario"
	}
	return s.Name
}

func signedWhole(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + output.FormatWhole(d)
	}
	return output.FormatWhole(d)
}
