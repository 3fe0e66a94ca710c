// Package tui is the interactive terminal front end: results, ledger drill-down
// and optimization sweeps over a single scenario.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/tui/scenes"
	"github.com/rgehrsitz/rothsim/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	// An empty path starts from the built-in default scenario
	scenarioPath string
	scenario     *domain.Scenario
	result       *domain.SimulationResult
	engine       *calculation.Engine
	parser       *config.InputParser

	resultsModel  *scenes.ResultsModel
	ledgerModel   *scenes.LedgerModel
	optimizeModel *scenes.OptimizeModel

	// status is a one-line notice such as "Applied: Claim at 70"
	status string
	err    error

	loading        bool
	loadingMessage string
}

// NewModel creates the application model. engine may be nil.
func NewModel(scenarioPath string, engine *calculation.Engine, workers int) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return Model{
		currentScene:   SceneResults,
		scenarioPath:   scenarioPath,
		engine:         engine,
		parser:         config.NewInputParser(),
		resultsModel:   scenes.NewResultsModel(),
		ledgerModel:    scenes.NewLedgerModel(),
		optimizeModel:  scenes.NewOptimizeModel(engine, workers),
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Loading scenario...",
	}
}

// Init loads the scenario
func (m Model) Init() tea.Cmd {
	return loadScenarioCmd(m.parser, m.scenarioPath)
}

func loadScenarioCmd(parser *config.InputParser, path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return tuimsg.ScenarioLoadedMsg{Scenario: config.DefaultScenario()}
		}
		s, err := parser.LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.ScenarioLoadedMsg{Scenario: *s, Path: path}
	}
}

func simulateCmd(engine *calculation.Engine, s domain.Scenario) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.SimulationCompleteMsg{Result: engine.RunSimulation(s)}
	}
}

func saveScenarioCmd(parser *config.InputParser, path string, s domain.Scenario) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.SaveCompleteMsg{Filename: path, Err: parser.SaveToFile(path, s)}
	}
}

// savePath derives where "w" writes the working scenario
func (m Model) savePath() string {
	if m.scenarioPath == "" {
		return "scenario.yaml"
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if strings.HasSuffix(m.scenarioPath, ext) {
			return strings.TrimSuffix(m.scenarioPath, ext) + ".tuned" + ext
		}
	}
	return m.scenarioPath + ".tuned.yaml"
}
