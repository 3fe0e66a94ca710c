package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

// ProgressBar renders "[████░░░░] 50.0% 5/10"
type ProgressBar struct {
	Current int
	Total   int
	Width   int
	Label   string
}

// NewProgressBar creates a 40 column bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{Current: current, Total: total, Width: 40}
}

func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Percentage is 0 when Total is 0
func (p *ProgressBar) Percentage() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

func (p *ProgressBar) IsComplete() bool {
	return p.Total > 0 && p.Current >= p.Total
}

// Render returns the styled bar with percentage and count
func (p *ProgressBar) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(p.Label))
		b.WriteString("\n")
	}

	pct := p.Percentage()
	filled := int(float64(p.Width) * pct / 100)
	if filled > p.Width {
		filled = p.Width
	}

	b.WriteString("[")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))
	b.WriteString("] ")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(fmt.Sprintf("%.1f%%", pct)))
	b.WriteString(" ")
	b.WriteString(tuistyles.HelpStyle.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))

	return b.String()
}
