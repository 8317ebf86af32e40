package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// Bar is one row of a BarChart
type Bar struct {
	Label string
	Value decimal.Decimal
}

// BarChart draws amounts as horizontal bars sized by their share of a total
type BarChart struct {
	Title string
	Bars  []Bar
	Total decimal.Decimal
	Width int
}

// NewBarChart creates an empty chart with a 30 cell bar
func NewBarChart(title string) *BarChart {
	return &BarChart{Title: title, Width: 30}
}

// Add appends a bar
func (c *BarChart) Add(label string, value decimal.Decimal) *BarChart {
	c.Bars = append(c.Bars, Bar{Label: label, Value: value})
	return c
}

// WithTotal sets the amount a full bar stands for. Without it the largest bar is full.
func (c *BarChart) WithTotal(total decimal.Decimal) *BarChart {
	c.Total = total
	return c
}

// WithWidth sets the bar width in cells
func (c *BarChart) WithWidth(width int) *BarChart {
	c.Width = width
	return c
}

// Filled returns how many cells of the bar for value are filled
func (c *BarChart) Filled(value decimal.Decimal) int {
	total := c.scale()
	if !total.IsPositive() || !value.IsPositive() {
		return 0
	}
	filled := int(value.Mul(decimal.NewFromInt(int64(c.Width))).Div(total).IntPart())
	if filled > c.Width {
		filled = c.Width
	}
	return filled
}

// Share returns value as a percentage of the total, rounded to one decimal
func (c *BarChart) Share(value decimal.Decimal) decimal.Decimal {
	total := c.scale()
	if !total.IsPositive() {
		return decimal.Zero
	}
	return value.Mul(decimal.NewFromInt(100)).Div(total).Round(1)
}

func (c *BarChart) scale() decimal.Decimal {
	if c.Total.IsPositive() {
		return c.Total
	}
	max := decimal.Zero
	for _, b := range c.Bars {
		if b.Value.GreaterThan(max) {
			max = b.Value
		}
	}
	return max
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	var content strings.Builder

	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(c.Title))
		content.WriteString("\n")
	}

	labelWidth := 0
	for _, b := range c.Bars {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 1)

	for _, b := range c.Bars {
		filled := c.Filled(b.Value)
		content.WriteString(labelStyle.Render(b.Label))
		content.WriteString("[")
		if filled > 0 {
			content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		}
		if empty := c.Width - filled; empty > 0 {
			content.WriteString(emptyStyle.Render(strings.Repeat("░", empty)))
		}
		content.WriteString("] ")
		content.WriteString(tuistyles.ValueStyle.Render(tuistyles.FormatCurrency(b.Value)))
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
			Render(fmt.Sprintf(" %s %%", strings.Replace(c.Share(b.Value).StringFixed(1), ".", ",", 1))))
		content.WriteString("\n")
	}

	return strings.TrimSuffix(content.String(), "\n")
}
