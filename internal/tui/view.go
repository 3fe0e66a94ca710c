package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = tuistyles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" +
			tuistyles.HelpStyle.Render("Press any key to continue, q to quit")
	case m.loading:
		content = tuistyles.BorderStyle.Render(m.loadingMessage)
	default:
		content = m.renderScene()
	}
	return m.renderApp(content)
}

func (m Model) renderScene() string {
	switch m.currentScene {
	case SceneResults:
		return m.resultsModel.View()
	case SceneLedger:
		return m.ledgerModel.View()
	case SceneOptimize:
		return m.optimizeModel.View()
	case SceneHelp:
		return tuistyles.BorderStyle.Render(helpText)
	default:
		return "Unknown scene"
	}
}

// renderApp wraps content with the title bar and status bar
func (m Model) renderApp(content string) string {
	body := lipgloss.NewStyle().Height(max(m.height-4, 1)).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTitleBar(), body, m.renderStatusBar())
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("RothSim - Roth Conversion & Withdrawal Planner")
	crumb := m.currentScene.String()
	if m.scenario != nil && m.scenario.Name != "" {
		crumb += " / " + m.scenario.Name
	}
	if m.optimizeModel.Running() && m.currentScene != SceneOptimize {
		crumb += "  (optimizing...)"
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("r", "results"),
		formatShortcut("l", "ledger"),
		formatShortcut("o", "optimize"),
		formatShortcut("1/2/3", "sweep"),
		formatShortcut("a", "apply best"),
		formatShortcut("w", "save"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	text := strings.Join(shortcuts, " • ")

	if m.status != "" {
		gap := m.width - lipgloss.Width(text) - lipgloss.Width(m.status) - 4
		text += strings.Repeat(" ", max(gap, 2)) + tuistyles.InfoStyle.Render(m.status)
	}
	return tuistyles.StatusBarStyle.Width(m.width).Render(text)
}

func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

const helpText = `KEYBOARD SHORTCUTS

  r        Results table
  l        Ledger for the selected year
  enter    Open the ledger from the results table
  o        Optimize screen
  1        Sweep Roth conversion amount and end age
  2        Compare withdrawal orders
  3        Compare Social Security claim ages
  a        Apply the best candidate of the last sweep
  w        Save the working scenario next to the input file
  ?        This help
  esc      Back
  q        Quit

RESULTS
  ↑/↓      Select a year
  c        Toggle the balance chart

LEDGER
  [ / p    Previous year
  ] / n    Next year
  ↑/↓      Scroll`
