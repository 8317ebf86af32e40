// Package tuimsg holds the messages scenes send to the root model.
package tuimsg

import tea "github.com/charmbracelet/bubbletea"

// CheckNumberMsg opens the personal number scene with Number filled in
type CheckNumberMsg struct {
	Number string
}

// CheckNumber returns a command that emits CheckNumberMsg
func CheckNumber(number string) tea.Cmd {
	return func() tea.Msg { return CheckNumberMsg{Number: number} }
}
