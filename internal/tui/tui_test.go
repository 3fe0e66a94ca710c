package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/tui/tuimsg"
)

// step applies msg and follows single, non-batched commands until none remain
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			return m
		}
		msg = cmd()
	}
	return m
}

func loaded(t *testing.T, path string) Model {
	t.Helper()
	m := NewModel(path, nil, 1)
	assert.True(t, m.loading)
	return step(t, m, m.Init()())
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadsDefaultScenario(t *testing.T) {
	m := loaded(t, "")

	assert.False(t, m.loading)
	require.NotNil(t, m.result)
	assert.Equal(t, "Default", m.scenario.Name)
	assert.Contains(t, m.View(), "Simulation Results")
}

func TestModel_LoadError(t *testing.T) {
	m := loaded(t, filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	m = step(t, m, keyMsg("x"))
	assert.NoError(t, m.err)
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t, "")

	m = step(t, m, keyMsg("l"))
	assert.Equal(t, SceneLedger, m.currentScene)
	assert.Contains(t, m.View(), "LEDGER FOR AGE 62")

	m = step(t, m, keyMsg("o"))
	assert.Equal(t, SceneOptimize, m.currentScene)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneLedger, m.currentScene)

	m = step(t, m, keyMsg("r"))
	assert.Equal(t, SceneResults, m.currentScene)

	m = step(t, m, keyMsg("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")
}

func TestModel_ApplyScenario(t *testing.T) {
	m := loaded(t, "")
	before := m.result.Summary.FinalTANW

	s := *m.scenario
	s.SSClaimAge = 70
	m = step(t, m, tuimsg.ApplyScenarioMsg{Scenario: s, Label: "Claim at 70"})

	assert.Equal(t, 70, m.result.Scenario.SSClaimAge)
	assert.Equal(t, "Applied: Claim at 70", m.status)
	assert.False(t, m.result.Summary.FinalTANW.Equal(before))
}

func TestModel_SaveScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, config.NewInputParser().SaveToFile(path, config.DefaultScenario()))

	m := loaded(t, path)
	assert.Equal(t, filepath.Join(dir, "plan.tuned.yaml"), m.savePath())

	m = step(t, m, keyMsg("w"))
	require.NoError(t, m.err)
	assert.Contains(t, m.status, "plan.tuned.yaml")

	_, err := os.Stat(filepath.Join(dir, "plan.tuned.yaml"))
	assert.NoError(t, err)
}
