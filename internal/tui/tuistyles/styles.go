// Package tuistyles holds the lipgloss styles shared by the TUI packages.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/output"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#005293")
	ColorSecondary = lipgloss.Color("#FECB00")
	ColorSuccess   = lipgloss.Color("#2E9E44")
	ColorDanger    = lipgloss.Color("#D7263D")

	ColorForeground = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#EEEEEE"}
	ColorMuted      = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#888888"}
	ColorBorder     = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingTop(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Underline(true).
			PaddingRight(2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				PaddingRight(2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(22)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground)

	ValidStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	InvalidStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)
)

// StatusStyle picks the valid or invalid style
func StatusStyle(ok bool) lipgloss.Style {
	if ok {
		return ValidStyle
	}
	return InvalidStyle
}

// StatusIndicator returns a check mark or a cross
func StatusIndicator(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// FormatCurrency formats kronor for display
func FormatCurrency(d decimal.Decimal) string {
	return output.FormatCurrency(d)
}

// Field renders one "label value" line
func Field(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
