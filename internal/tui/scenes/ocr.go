package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/ocr"
	"github.com/rgehrsitz/kalkyl/internal/tui/components"
	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// OCRModel validates an OCR reference as it is typed
type OCRModel struct {
	input  textinput.Model
	result *ocr.Validation
}

// NewOCRModel creates the OCR scene
func NewOCRModel() *OCRModel {
	ti := textinput.New()
	ti.Placeholder = "OCR-nummer"
	ti.CharLimit = 40
	ti.Width = 30
	ti.Validate = func(s string) error {
		if strings.Trim(s, "0123456789 -") != "" {
			return fmt.Errorf("only digits allowed")
		}
		return nil
	}

	return &OCRModel{input: ti}
}

// Focus focuses the input
func (m *OCRModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the input
func (m *OCRModel) Blur() {
	m.input.Blur()
}

// Result returns the validation of the current input, or nil when it is empty
func (m *OCRModel) Result() *ocr.Validation {
	return m.result
}

// Update feeds key presses to the input and revalidates
func (m *OCRModel) Update(msg tea.Msg) (*OCRModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	m.result = nil
	if value := m.input.Value(); value != "" {
		res := ocr.Validate(value)
		m.result = &res
	}
	return m, cmd
}

// View renders the input and the validation result
func (m *OCRModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("OCR-nummer"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	res := m.result
	if res == nil {
		b.WriteString(tuistyles.SubtitleStyle.Render("Skriv ett OCR-nummer. Sista siffran är kontrollsiffran."))
		return tuistyles.BorderStyle.Render(b.String())
	}

	status := "Giltigt"
	if !res.IsValid {
		status = res.Error
	}
	b.WriteString(components.NewMetricCard("OCR", ocr.Group(res.Cleaned)).WithStatus(res.IsValid, status).WithWidth(40).Render())
	b.WriteString("\n")
	if res.CheckDigit != nil {
		b.WriteString(tuistyles.Field("Kontrollsiffra", fmt.Sprintf("%d", *res.CheckDigit)) + "\n")
	}
	return tuistyles.BorderStyle.Render(b.String())
}
