package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rothsim/internal/tui/tuistyles"
)

const yAxisWidth = 9

var seriesMarks = []rune{'●', '■', '▲', '♦'}

// Series is one plotted line
type Series struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// LineChart plots balances over the simulated ages
type LineChart struct {
	Title  string
	Series []Series
	// XLabels are printed under the first, middle and last points
	XLabels []string
	Width   int
	Height  int
}

// NewLineChart creates a 60x12 chart
func NewLineChart(title string) *LineChart {
	return &LineChart{Title: title, Width: 60, Height: 12}
}

func (c *LineChart) AddSeries(name string, points []float64, color lipgloss.Color) *LineChart {
	c.Series = append(c.Series, Series{Name: name, Points: points, Color: color})
	return c
}

func (c *LineChart) WithLabels(labels []string) *LineChart {
	c.XLabels = labels
	return c
}

func (c *LineChart) WithSize(width, height int) *LineChart {
	c.Width = width
	c.Height = height
	return c
}

// Render draws every series onto a shared grid. Later series never overwrite earlier ones.
func (c *LineChart) Render() string {
	if len(c.Series) == 0 || c.Height < 2 || c.Width <= yAxisWidth+3 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	lo, hi := c.bounds()
	plotWidth := c.Width - yAxisWidth - 3

	// -1 marks an empty cell, otherwise the series index
	grid := make([][]int, c.Height)
	for i := range grid {
		grid[i] = make([]int, plotWidth)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}

	for si, s := range c.Series {
		prevX, prevY := -1, -1
		for i, v := range s.Points {
			x := scale(i, len(s.Points), plotWidth)
			y := c.Height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(c.Height-1)))
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, si)
			} else {
				plot(grid, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(tuistyles.TitleStyle.Render(c.Title))
		b.WriteString("\n\n")
	}

	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for row := range grid {
		label := ""
		if row == 0 || row == c.Height-1 || row == c.Height/2 {
			label = formatChartValue(hi - float64(row)/float64(c.Height-1)*(hi-lo))
		}
		b.WriteString(axis.Render(label))
		b.WriteString(" │ ")
		for _, si := range grid[row] {
			if si < 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.Series[si].Color).Render(string(seriesMarks[si%len(seriesMarks)])))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", yAxisWidth+1))
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", plotWidth+1))
	b.WriteString("\n")

	if labels := c.renderXLabels(plotWidth); labels != "" {
		b.WriteString(labels)
		b.WriteString("\n")
	}
	if len(c.Series) > 1 {
		b.WriteString(c.renderLegend())
	}
	return b.String()
}

func (c *LineChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Points {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	if lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func (c *LineChart) renderXLabels(plotWidth int) string {
	n := len(c.XLabels)
	if n == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", plotWidth+1))
	for _, i := range []int{0, n / 2, n - 1} {
		label := []rune(c.XLabels[i])
		x := scale(i, n, plotWidth)
		if x+len(label) > len(line) {
			x = len(line) - len(label)
		}
		if x < 0 {
			continue
		}
		copy(line[x:], label)
	}
	return strings.Repeat(" ", yAxisWidth+3) + tuistyles.HelpStyle.Render(string(line))
}

func (c *LineChart) renderLegend() string {
	items := make([]string, len(c.Series))
	for i, s := range c.Series {
		mark := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesMarks[i%len(seriesMarks)]))
		items[i] = fmt.Sprintf("%s %s", mark, s.Name)
	}
	return tuistyles.HelpStyle.Render(strings.Join(items, "  "))
}

func scale(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i) / float64(n-1) * float64(width-1))
}

func plot(grid [][]int, x, y, si int) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] < 0 {
		grid[y][x] = si
	}
}

// drawLine connects two points with Bresenham's algorithm
func drawLine(grid [][]int, x0, y0, x1, y1, si int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		plot(grid, x0, y0, si)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func formatChartValue(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case math.Abs(v) >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
