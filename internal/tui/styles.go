package tui

import "github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle       = tuistyles.TitleStyle
	SubtitleStyle    = tuistyles.SubtitleStyle
	StatusBarStyle   = tuistyles.StatusBarStyle
	BorderStyle      = tuistyles.BorderStyle
	ActiveTabStyle   = tuistyles.ActiveTabStyle
	InactiveTabStyle = tuistyles.InactiveTabStyle
)
