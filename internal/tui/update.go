package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rothsim/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resultsModel.SetSize(msg.Width, msg.Height-4)
		m.ledgerModel.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ScenarioLoadedMsg:
		s := msg.Scenario
		m.scenario = &s
		m.loadingMessage = "Running simulation..."
		return m, simulateCmd(m.engine, s)

	case tuimsg.SimulationCompleteMsg:
		m.loading = false
		m.result = msg.Result
		m.resultsModel.SetResult(msg.Result)
		m.ledgerModel.SetResult(msg.Result)
		m.optimizeModel.SetScenario(msg.Result.Scenario, msg.Result.Summary.FinalTANW)
		return m, nil

	case tuimsg.ApplyScenarioMsg:
		s := msg.Scenario
		m.scenario = &s
		m.status = "Applied: " + msg.Label
		m.previousScene = m.currentScene
		m.currentScene = SceneResults
		return m, simulateCmd(m.engine, s)

	case tuimsg.SaveScenarioMsg:
		if m.scenario == nil {
			return m, nil
		}
		return m, saveScenarioCmd(m.parser, msg.Filename, *m.scenario)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s", msg.Filename)
		return m, nil

	case tuimsg.OptimizationStartedMsg, tuimsg.OptimizationProgressMsg, tuimsg.OptimizationCompleteMsg, spinner.TickMsg:
		// Sweeps keep running when the user navigates away
		var cmd tea.Cmd
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
		if done, ok := msg.(tuimsg.OptimizationCompleteMsg); ok && done.Err == nil {
			m.status = fmt.Sprintf("Optimization finished: %d candidates", len(done.Result.Variants))
		}
		return m, cmd
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m.navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneResults {
			target := m.previousScene
			if target == m.currentScene {
				target = SceneResults
			}
			return m.navigate(target)
		}
		return m, nil

	case "r":
		return m.navigate(SceneResults)

	case "l":
		return m.openLedger()

	case "enter":
		if m.currentScene == SceneResults {
			return m.openLedger()
		}

	case "o":
		return m.navigate(SceneOptimize)

	case "1", "2", "3", "a":
		m.previousScene, m.currentScene = m.currentScene, SceneOptimize
		var cmd tea.Cmd
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
		return m, cmd

	case "w":
		path := m.savePath()
		return m, func() tea.Msg { return tuimsg.SaveScenarioMsg{Filename: path} }
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(s Scene) (tea.Model, tea.Cmd) {
	if s == m.currentScene {
		return m, nil
	}
	return m, func() tea.Msg { return NavigateMsg{Scene: s} }
}

// openLedger shows the ledger for the year selected in the results table
func (m Model) openLedger() (tea.Model, tea.Cmd) {
	if age, ok := m.resultsModel.SelectedAge(); ok && m.currentScene == SceneResults {
		m.ledgerModel.SetAge(age)
	}
	return m.navigate(SceneLedger)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneLedger:
		m.ledgerModel, cmd = m.ledgerModel.Update(msg)
	case SceneOptimize:
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
	}
	return m, cmd
}
