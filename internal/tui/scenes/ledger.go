package scenes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/output"
	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

var (
	keyPrevYear = key.NewBinding(key.WithKeys("[", "p"))
	keyNextYear = key.NewBinding(key.WithKeys("]", "n"))
)

// LedgerModel shows one year's ledger entries grouped by phase
type LedgerModel struct {
	result   *domain.SimulationResult
	age      int
	viewport viewport.Model
	err      error
}

// NewLedgerModel creates an empty ledger scene
func NewLedgerModel() *LedgerModel {
	return &LedgerModel{viewport: viewport.New(80, 20)}
}

// SetResult keeps the current age when it is still simulated
func (m *LedgerModel) SetResult(res *domain.SimulationResult) {
	m.result = res
	age := m.age
	if _, ok := res.RowForAge(age); !ok {
		age = res.Scenario.StartAge
	}
	m.SetAge(age)
}

// SetAge shows the ledger for age. Ages outside the run are clamped.
func (m *LedgerModel) SetAge(age int) {
	if m.result == nil {
		return
	}
	sc := m.result.Scenario
	if age < sc.StartAge {
		age = sc.StartAge
	}
	if age > sc.EndAge {
		age = sc.EndAge
	}
	m.age = age

	text, err := output.FormatLedgerYear(m.result, age)
	m.err = err
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

// Age is the year currently shown
func (m *LedgerModel) Age() int {
	return m.age
}

func (m *LedgerModel) SetSize(width, height int) {
	m.viewport.Width = width
	if h := height - 6; h > 3 {
		m.viewport.Height = h
	}
}

// Update steps between years and scrolls the entry list
func (m *LedgerModel) Update(msg tea.Msg) (*LedgerModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keyPrevYear):
			m.SetAge(m.age - 1)
			return m, nil
		case key.Matches(km, keyNextYear):
			m.SetAge(m.age + 1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the scene
func (m *LedgerModel) View() string {
	if m.result == nil {
		return tuistyles.SubtitleStyle.Render("No results yet.")
	}
	if m.err != nil {
		return tuistyles.ErrorStyle.Render(m.err.Error())
	}

	title := tuistyles.TitleStyle.Render(fmt.Sprintf("Ledger, age %d", m.age))
	scroll := tuistyles.HelpStyle.Render(fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", scroll),
		"",
		m.viewport.View(),
		"",
		tuistyles.HelpStyle.Render("[/p previous year • ]/n next year • ↑/↓ scroll"),
	)
}
