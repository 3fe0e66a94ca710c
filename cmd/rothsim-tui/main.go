package main

import (
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rothsim/internal/tui"
)

var workers int

var rootCmd = &cobra.Command{
	Use:          "rothsim-tui [scenario-file]",
	Short:        "Interactive Roth conversion and withdrawal planner",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// With no file the TUI starts from the built-in default scenario
		scenarioPath := ""
		if len(args) == 1 {
			scenarioPath = args[0]
			if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
				return fmt.Errorf("scenario file not found: %s", scenarioPath)
			}
		}

		p := tea.NewProgram(
			tui.NewModel(scenarioPath, nil, workers),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	},
}

func main() {
	rootCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Parallel simulation workers for sweeps")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
