package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/personnummer"
	"github.com/rgehrsitz/kalkyl/internal/tui/components"
	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// PersonnummerModel validates a personal number as it is typed
type PersonnummerModel struct {
	input  textinput.Model
	result *personnummer.ValidationResult
	width  int
}

// NewPersonnummerModel creates the personal number scene with a focused input
func NewPersonnummerModel() *PersonnummerModel {
	ti := textinput.New()
	ti.Placeholder = "ÅÅMMDD-NNNK"
	ti.CharLimit = personnummer.MaxInputLength + 1
	ti.Width = 20
	ti.Focus()

	return &PersonnummerModel{input: ti}
}

// SetSize updates the model dimensions
func (m *PersonnummerModel) SetSize(width, height int) {
	m.width = width
}

// Focus focuses the input
func (m *PersonnummerModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the input
func (m *PersonnummerModel) Blur() {
	m.input.Blur()
}

// Value returns the current input
func (m *PersonnummerModel) Value() string {
	return m.input.Value()
}

// Result returns the validation of the current input, or nil when it is empty
func (m *PersonnummerModel) Result() *personnummer.ValidationResult {
	return m.result
}

// Update feeds key presses to the input, then reformats and revalidates it
func (m *PersonnummerModel) Update(msg tea.Msg) (*PersonnummerModel, tea.Cmd) {
	prev := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if next := personnummer.AutoFormat(prev, m.input.Value()); next != m.input.Value() {
		m.input.SetValue(next)
		m.input.CursorEnd()
	}

	m.validate()
	return m, cmd
}

// SetValue replaces the input and validates it
func (m *PersonnummerModel) SetValue(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.validate()
}

func (m *PersonnummerModel) validate() {
	m.result = nil
	if value := m.input.Value(); value != "" {
		res := personnummer.Validate(value)
		m.result = &res
	}
}

// View renders the input and the validation result
func (m *PersonnummerModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Personnummer"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	res := m.result
	if res == nil {
		b.WriteString(tuistyles.SubtitleStyle.Render("Skriv ett personnummer eller samordningsnummer."))
		return tuistyles.BorderStyle.Render(b.String())
	}

	status := "Giltigt"
	switch {
	case res.IsValid && res.Suggested:
		status = "Kontrollsiffra saknas"
	case !res.IsValid:
		status = res.Error
	}
	card := components.NewMetricCard("Status", statusValue(res)).WithStatus(res.IsValid, status).WithWidth(40)
	b.WriteString(card.Render())
	b.WriteString("\n")

	if res.CheckDigit != nil {
		b.WriteString(tuistyles.Field("Kontrollsiffra", fmt.Sprintf("%d", *res.CheckDigit)) + "\n")
	}
	if res.Formatted != "" {
		b.WriteString(tuistyles.Field("Formaterat", res.Formatted) + "\n")
	}
	if res.Gender != "" {
		b.WriteString(tuistyles.Field("Kön", genderLabel(res.Gender)) + "\n")
	}
	if res.IsCoordinationNumber {
		b.WriteString(tuistyles.Field("Typ", "Samordningsnummer") + "\n")
	}

	return tuistyles.BorderStyle.Render(b.String())
}

func statusValue(res *personnummer.ValidationResult) string {
	if res.Formatted != "" {
		return res.Formatted
	}
	return "-"
}

func genderLabel(g personnummer.Gender) string {
	if g == personnummer.GenderFemale {
		return "Kvinna"
	}
	return "Man"
}
