package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneResults Scene = iota
	SceneLedger
	SceneOptimize
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneResults:
		return "Results"
	case SceneLedger:
		return "Ledger"
	case SceneOptimize:
		return "Optimize"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}
