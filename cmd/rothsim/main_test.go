package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command with fresh flag values and captures its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeScenario(t *testing.T, name string) string {
	t.Helper()

	s := config.DefaultScenario()
	s.Name = name
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := config.NewInputParser().SaveToFile(path, s); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd.Use != "rothsim" {
		t.Errorf("Expected root command use to be 'rothsim', got %s", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}
	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
	if cmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("Expected --log-level persistent flag")
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(out, "rothsim") {
		t.Error("Expected help command to show help text")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"simulate",
		"validate",
		"optimize",
		"grid",
		"strategies",
		"compare",
		"serve",
		"version",
	}

	for _, expectedCmd := range expectedCommands {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == expectedCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expectedCmd)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeScenario(t, "Validate Me")

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("Expected valid scenario, got %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("Expected confirmation, got %q", out)
	}

	if _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing scenario file")
	}
}

func TestSimulateCommand_Console(t *testing.T) {
	path := writeScenario(t, "Console Run")

	out, err := execute(t, "simulate", path, "--ledger-age", "70")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !strings.Contains(out, "ROTH CONVERSION & WITHDRAWAL SIMULATION: CONSOLE RUN") {
		t.Errorf("Expected console title, got %q", out[:min(len(out), 200)])
	}
	if !strings.Contains(out, "LEDGER FOR AGE 70") {
		t.Error("Expected ledger for age 70")
	}
}

func TestSimulateCommand_JSON(t *testing.T) {
	out, err := execute(t, "simulate", "--format", "json")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	var res struct {
		YearRows []json.RawMessage `json:"yearRows"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	// default scenario runs ages 62 through 95
	if len(res.YearRows) != 34 {
		t.Errorf("Expected 34 year rows, got %d", len(res.YearRows))
	}
}

func TestSimulateCommand_UnknownFormat(t *testing.T) {
	if _, err := execute(t, "simulate", "--format", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestOptimizeCommand(t *testing.T) {
	path := writeScenario(t, "Sweep")

	out, err := execute(t, "optimize", "ss", path, "--workers", "2")
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !strings.Contains(out, "SOCIAL SECURITY CLAIM AGE COMPARISON") {
		t.Errorf("Expected sweep title, got %q", out[:min(len(out), 200)])
	}
	if !strings.Contains(out, "Configuration: "+path) {
		t.Error("Expected configuration path in output")
	}

	out, err = execute(t, "optimize", "conversion", "--format", "csv",
		"--amount-min", "0", "--amount-max", "20000", "--amount-step", "10000",
		"--end-age-min", "70", "--end-age-max", "70", "--end-age-step", "1")
	if err != nil {
		t.Fatalf("Optimize conversion failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, base row and three candidates
	if len(lines) != 5 {
		t.Errorf("Expected 5 CSV lines, got %d:\n%s", len(lines), out)
	}
}

func TestOptimizeCommand_InvalidInput(t *testing.T) {
	if _, err := execute(t, "optimize", "annuity"); err == nil {
		t.Error("Expected error for unknown optimization type")
	}
	if _, err := execute(t, "optimize", "conversion", "--amount-step", "lots"); err == nil {
		t.Error("Expected error for non-numeric amount step")
	}
}

func TestGridAndStrategiesCommands(t *testing.T) {
	out, err := execute(t, "grid", "--amount-max", "50000", "--amount-step", "50000",
		"--end-age-min", "70", "--end-age-max", "71")
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if !strings.Contains(out, "ROTH CONVERSION GRID") {
		t.Errorf("Expected grid title, got %q", out)
	}

	out, err = execute(t, "strategies", "--format", "json")
	if err != nil {
		t.Fatalf("Strategies failed: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Error("Expected JSON output from strategies")
	}
}

func TestGridCommand_ZeroAmountMax(t *testing.T) {
	out, err := execute(t, "grid", "--format", "json", "--amount-max", "0",
		"--end-age-min", "70", "--end-age-max", "72", "--end-age-step", "2")
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}

	var g struct {
		Amounts []json.RawMessage `json:"amounts"`
		Cells   []json.RawMessage `json:"cells"`
	}
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if len(g.Amounts) != 1 || len(g.Cells) != 2 {
		t.Errorf("Expected only the zero amount across 2 end ages, got %d amounts and %d cells", len(g.Amounts), len(g.Cells))
	}
}

func TestCompareCommand(t *testing.T) {
	base := writeScenario(t, "Base")
	alt := writeScenario(t, "Alternative")

	out, err := execute(t, "compare", base, alt)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !strings.Contains(out, "Base Scenario: Base") {
		t.Errorf("Expected base scenario name, got %q", out)
	}
	if !strings.Contains(out, "Alternative") {
		t.Error("Expected alternative in output")
	}

	if _, err := execute(t, "compare", base); err == nil {
		t.Error("Expected error when no alternative is given")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, err := execute(t, "invalid-command"); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestRootCommand_InvalidFlag(t *testing.T) {
	if _, err := execute(t, "--invalid-flag"); err == nil {
		t.Error("Expected error for invalid flag")
	}
}
