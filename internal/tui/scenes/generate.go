package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/personnummer"
	"github.com/rgehrsitz/kalkyl/internal/tui/tuimsg"
	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// DefaultBatchSize is the number of test numbers generated per batch
const DefaultBatchSize = 5

var (
	regenerateKey = key.NewBinding(key.WithKeys("enter", " "))
	upKey         = key.NewBinding(key.WithKeys("up", "k"))
	downKey       = key.NewBinding(key.WithKeys("down", "j"))
	checkKey      = key.NewBinding(key.WithKeys("v"))
)

// GenerateModel lists synthetic personal numbers for testing
type GenerateModel struct {
	service  *personnummer.Service
	numbers  []string
	size     int
	selected int
}

// NewGenerateModel creates the generator scene with a first batch
func NewGenerateModel(service *personnummer.Service) *GenerateModel {
	m := &GenerateModel{service: service, size: DefaultBatchSize}
	m.numbers = service.GenerateTestBatch(m.size)
	return m
}

// Numbers returns the current batch
func (m *GenerateModel) Numbers() []string {
	return m.numbers
}

// Selected returns the highlighted number
func (m *GenerateModel) Selected() string {
	return m.numbers[m.selected]
}

// Update regenerates on enter or space, moves the selection with the arrow
// keys and sends the selected number to the validator on v
func (m *GenerateModel) Update(msg tea.Msg) (*GenerateModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, regenerateKey):
		m.numbers = m.service.GenerateTestBatch(m.size)
		m.selected = 0
	case key.Matches(keyMsg, upKey):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, downKey):
		if m.selected < len(m.numbers)-1 {
			m.selected++
		}
	case key.Matches(keyMsg, checkKey):
		return m, tuimsg.CheckNumber(m.Selected())
	}
	return m, nil
}

// View renders the batch
func (m *GenerateModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Testpersonnummer"))
	b.WriteString("\n\n")
	for i, n := range m.numbers {
		if i == m.selected {
			b.WriteString("> " + tuistyles.ActiveTabStyle.Render(n) + "\n")
			continue
		}
		b.WriteString("  " + tuistyles.ValueStyle.Render(n) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render("enter: generera nya • ↑/↓: välj • v: validera"))
	return tuistyles.BorderStyle.Render(b.String())
}
