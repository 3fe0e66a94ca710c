package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/optimization"
	"github.com/rgehrsitz/rothsim/internal/output"
	"github.com/rgehrsitz/rothsim/internal/tui/components"
	"github.com/rgehrsitz/rothsim/internal/tui/tuimsg"
	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

const maxListedVariants = 12

var (
	keyConversion = key.NewBinding(key.WithKeys("1"))
	keyWithdrawal = key.NewBinding(key.WithKeys("2"))
	keySSClaim    = key.NewBinding(key.WithKeys("3"))
	keyApplyBest  = key.NewBinding(key.WithKeys("a"))
	keyApplyRow   = key.NewBinding(key.WithKeys("enter"))
	keyUp         = key.NewBinding(key.WithKeys("up", "k"))
	keyDown       = key.NewBinding(key.WithKeys("down", "j"))
)

// OptimizeModel runs sweeps in the background and lists the ranked candidates
type OptimizeModel struct {
	engine   *calculation.Engine
	workers  int
	scenario *domain.Scenario
	baseTANW decimal.Decimal

	running bool
	kind    domain.OptimizationType
	events  chan tea.Msg
	spinner spinner.Model
	done    int
	total   int
	label   string

	result *domain.OptimizationResult
	ranked []int
	cursor int
	err    error
}

// NewOptimizeModel creates the scene. A nil engine uses a silent default.
func NewOptimizeModel(engine *calculation.Engine, workers int) *OptimizeModel {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if workers < 1 {
		workers = 1
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary)
	return &OptimizeModel{engine: engine, workers: workers, spinner: sp}
}

// SetScenario sets the scenario future sweeps start from and its current TANW
func (m *OptimizeModel) SetScenario(s domain.Scenario, tanw decimal.Decimal) {
	c := s.Clone()
	m.scenario = &c
	m.baseTANW = tanw
}

// Running reports whether a sweep is in progress
func (m *OptimizeModel) Running() bool {
	return m.running
}

// Result is the last completed sweep
func (m *OptimizeModel) Result() *domain.OptimizationResult {
	return m.result
}

// Start launches a sweep unless one is already running
func (m *OptimizeModel) Start(t domain.OptimizationType) tea.Cmd {
	if m.running || m.scenario == nil {
		return nil
	}

	events := make(chan tea.Msg, 256)
	m.events = events
	m.running = true
	m.kind = t
	m.done, m.total, m.label = 0, 0, ""
	m.result, m.ranked, m.cursor, m.err = nil, nil, 0, nil

	opt := optimization.NewOptimizer(
		optimization.WithEngine(m.engine),
		optimization.WithWorkers(m.workers),
		optimization.WithProgress(func(done, total int, label string) {
			// Progress may be dropped; completion never is
			select {
			case events <- tuimsg.OptimizationProgressMsg{Done: done, Total: total, Label: label}:
			default:
			}
		}),
	)
	sc := m.scenario.Clone()

	go func() {
		res, err := opt.Run(t, sc)
		events <- tuimsg.OptimizationCompleteMsg{Result: res, Err: err}
		close(events)
	}()

	return tea.Batch(
		func() tea.Msg { return tuimsg.OptimizationStartedMsg{Type: t} },
		m.spinner.Tick,
		listen(events),
	)
}

func listen(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles sweep keys, progress and completion
func (m *OptimizeModel) Update(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tuimsg.OptimizationProgressMsg:
		m.done, m.total, m.label = msg.Done, msg.Total, msg.Label
		if m.events == nil {
			return m, nil
		}
		return m, listen(m.events)

	case tuimsg.OptimizationCompleteMsg:
		m.running = false
		m.events = nil
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		res := msg.Result
		m.result = &res
		m.ranked = rankVariants(res.Variants)
		m.cursor = 0
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, keyConversion):
			return m, m.Start(domain.OptimizeConversion)
		case key.Matches(msg, keyWithdrawal):
			return m, m.Start(domain.OptimizeWithdrawalOrder)
		case key.Matches(msg, keySSClaim):
			return m, m.Start(domain.OptimizeSSClaimAge)
		case key.Matches(msg, keyUp):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keyDown):
			if m.cursor < m.listed()-1 {
				m.cursor++
			}
		case key.Matches(msg, keyApplyBest):
			if m.result != nil && m.result.Best != nil {
				return m, apply(*m.result.Best)
			}
		case key.Matches(msg, keyApplyRow):
			if m.cursor < len(m.ranked) {
				return m, apply(m.result.Variants[m.ranked[m.cursor]])
			}
		}
	}
	return m, nil
}

func apply(v domain.OptimizationVariant) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.ApplyScenarioMsg{Scenario: v.Scenario.Clone(), Label: v.Label}
	}
}

// rankVariants orders variant indexes by score, keeping evaluation order on ties
func rankVariants(vs []domain.OptimizationVariant) []int {
	idx := make([]int, len(vs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return vs[idx[a]].Score.GreaterThan(vs[idx[b]].Score)
	})
	return idx
}

func (m *OptimizeModel) listed() int {
	if len(m.ranked) < maxListedVariants {
		return len(m.ranked)
	}
	return maxListedVariants
}

// View renders the scene
func (m *OptimizeModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Optimize"))
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render("1 Roth conversion • 2 withdrawal order • 3 Social Security claim age"))
	b.WriteString("\n\n")

	switch {
	case m.scenario == nil:
		b.WriteString(tuistyles.SubtitleStyle.Render("Waiting for a scenario..."))
	case m.running:
		b.WriteString(m.renderRunning())
	case m.err != nil:
		b.WriteString(tuistyles.ErrorStyle.Render("Optimization failed: " + m.err.Error()))
	case m.result != nil:
		b.WriteString(m.renderResult())
	default:
		b.WriteString(fmt.Sprintf("Current TANW: %s\n", output.FormatWhole(m.baseTANW)))
		b.WriteString(tuistyles.HelpStyle.Render("Pick a sweep to start."))
	}
	return b.String()
}

func (m *OptimizeModel) renderRunning() string {
	header := fmt.Sprintf("%s Evaluating %s candidates", m.spinner.View(), sweepName(m.kind))
	bar := components.NewProgressBar(m.done, m.total).WithWidth(40).Render()
	return lipgloss.JoinVertical(lipgloss.Left, header, "", bar, tuistyles.HelpStyle.Render(m.label))
}

func (m *OptimizeModel) renderResult() string {
	res := m.result
	if res.Best == nil {
		return tuistyles.WarningStyle.Render("The sweep produced no candidates.")
	}

	delta := res.BestScore.Sub(m.baseTANW)
	best := components.NewMetricCard("Best: "+res.Best.Label, output.FormatWhole(res.BestScore)).
		WithTrend(!delta.IsNegative(), signedWhole(delta)+" vs current").
		WithWidth(48)
	spread := components.NewMetricCard("Candidates", fmt.Sprintf("%d", res.Stats.Count)).
		WithDescription(fmt.Sprintf("mean %s, σ %s", output.FormatCompact(decimal.NewFromFloat(res.Stats.Mean)), output.FormatCompact(decimal.NewFromFloat(res.Stats.StdDev)))).
		WithWidth(30)

	var list strings.Builder
	for i := 0; i < m.listed(); i++ {
		v := res.Variants[m.ranked[i]]
		line := fmt.Sprintf("%-44s %14s  taxes %12s", v.Label, output.FormatWhole(v.Score), output.FormatWhole(v.Summary.TotalTaxesPaid))
		if v.Summary.TotalSpendingShortfall.IsPositive() {
			line += tuistyles.WarningStyle.Render("  shortfall")
		}
		if i == m.cursor {
			line = tuistyles.SelectedItemStyle.Render("❯ " + line)
		} else {
			line = "  " + line
		}
		list.WriteString(line)
		list.WriteString("\n")
	}
	if len(m.ranked) > maxListedVariants {
		list.WriteString(tuistyles.HelpStyle.Render(fmt.Sprintf("  ... %d more", len(m.ranked)-maxListedVariants)))
		list.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid([]*components.MetricCard{best, spread}, 2),
		"",
		list.String(),
		tuistyles.HelpStyle.Render("a apply best • enter apply selected • ↑/↓ select"),
	)
}

func sweepName(t domain.OptimizationType) string {
	switch t {
	case domain.OptimizeConversion:
		return "Roth conversion"
	case domain.OptimizeWithdrawalOrder:
		return "withdrawal order"
	case domain.OptimizeSSClaimAge:
		return "claim age"
	default:
		return string(t)
	}
}
