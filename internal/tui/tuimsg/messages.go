// Package tuimsg holds messages passed between the TUI model and its scenes.
package tuimsg

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
)

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ScenarioLoadedMsg signals the scenario file has been read
type ScenarioLoadedMsg struct {
	Scenario domain.Scenario
	Path     string
}

// SimulationCompleteMsg carries a finished run
type SimulationCompleteMsg struct {
	Result *domain.SimulationResult
}

// OptimizationStartedMsg signals a sweep has begun
type OptimizationStartedMsg struct {
	Type domain.OptimizationType
}

// OptimizationProgressMsg reports candidates evaluated so far
type OptimizationProgressMsg struct {
	Done  int
	Total int
	Label string
}

// OptimizationCompleteMsg signals a sweep has finished
type OptimizationCompleteMsg struct {
	Result domain.OptimizationResult
	Err    error
}

// ApplyScenarioMsg replaces the working scenario, e.g. with a sweep's best candidate
type ApplyScenarioMsg struct {
	Scenario domain.Scenario
	Label    string
}

// SaveScenarioMsg asks for the working scenario to be written to disk
type SaveScenarioMsg struct {
	Filename string
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}
