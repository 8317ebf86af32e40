package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// MetricCard displays a single figure with label and optional status line
type MetricCard struct {
	Label       string
	Value       string
	Status      *Status
	Description string
	Width       int
}

// Status marks a card as passing or failing with a short text
type Status struct {
	OK   bool
	Text string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// WithStatus adds a status line to the card
func (m *MetricCard) WithStatus(ok bool, text string) *MetricCard {
	m.Status = &Status{OK: ok, Text: text}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.SubtitleStyle.Render(m.Label) + "\n" + tuistyles.ValueStyle.Render(m.Value)

	if m.Status != nil {
		content += "\n" + tuistyles.StatusStyle(m.Status.OK).Render(tuistyles.StatusIndicator(m.Status.OK)+" "+m.Status.Text)
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(content)
}

// MetricGrid renders multiple metric cards in rows of the given width
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, currentRow []string
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
