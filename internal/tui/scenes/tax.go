package scenes

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/output"
	"github.com/rgehrsitz/kalkyl/internal/tui/components"
	"github.com/rgehrsitz/kalkyl/internal/tui/tuistyles"
)

// Tax form fields
const (
	FieldKommun = iota
	FieldAge
	FieldSalary
	fieldCount
)

// TaxModel estimates net salary and employer cost for a monthly salary
type TaxModel struct {
	engine     *calculation.TaxEngine
	inputs     []textinput.Model
	focus      int
	focused    bool
	church     bool
	privat     *domain.PrivatpersonResult
	employer   *domain.ArbetsgivareResult
	inputError string
}

var (
	nextFieldKey    = key.NewBinding(key.WithKeys("tab", "down"))
	prevFieldKey    = key.NewBinding(key.WithKeys("shift+tab", "up"))
	toggleChurchKey = key.NewBinding(key.WithKeys("ctrl+k"))
)

// NewTaxModel creates the tax scene over engine
func NewTaxModel(engine *calculation.TaxEngine) *TaxModel {
	m := &TaxModel{engine: engine, inputs: make([]textinput.Model, fieldCount)}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Width = 20
		m.inputs[i] = ti
	}
	m.inputs[FieldKommun].Placeholder = "Stockholm"
	m.inputs[FieldKommun].CharLimit = 30
	m.inputs[FieldAge].Placeholder = "40"
	m.inputs[FieldAge].CharLimit = 3
	m.inputs[FieldSalary].Placeholder = "35000"
	m.inputs[FieldSalary].CharLimit = 9

	return m
}

// Focus focuses the active field
func (m *TaxModel) Focus() tea.Cmd {
	m.focused = true
	return m.inputs[m.focus].Focus()
}

// Blur removes focus from every field
func (m *TaxModel) Blur() {
	m.focused = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// SetField sets a field value and recalculates. Used by tests and presets.
func (m *TaxModel) SetField(field int, value string) {
	m.inputs[field].SetValue(value)
	m.recalculate()
}

// Results returns the latest calculation, or nils when the inputs are incomplete
func (m *TaxModel) Results() (*domain.PrivatpersonResult, *domain.ArbetsgivareResult) {
	return m.privat, m.employer
}

// Update moves between fields, toggles church membership and edits values
func (m *TaxModel) Update(msg tea.Msg) (*TaxModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, nextFieldKey):
			return m, m.moveFocus(1)
		case key.Matches(keyMsg, prevFieldKey):
			return m, m.moveFocus(-1)
		case key.Matches(keyMsg, toggleChurchKey):
			m.church = !m.church
			m.recalculate()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recalculate()
	return m, cmd
}

func (m *TaxModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	if !m.focused {
		return nil
	}
	return m.inputs[m.focus].Focus()
}

func (m *TaxModel) recalculate() {
	m.privat, m.employer, m.inputError = nil, nil, ""

	salaryText := strings.ReplaceAll(strings.TrimSpace(m.inputs[FieldSalary].Value()), " ", "")
	ageText := strings.TrimSpace(m.inputs[FieldAge].Value())
	if salaryText == "" || ageText == "" {
		return
	}

	salary, err := decimal.NewFromString(strings.Replace(salaryText, ",", ".", 1))
	if err != nil || salary.IsNegative() {
		m.inputError = "Ogiltig lön"
		return
	}
	age, err := strconv.Atoi(ageText)
	if err != nil || age < 0 {
		m.inputError = "Ogiltig ålder"
		return
	}

	privat := m.engine.CalculatePrivatperson(domain.PrivatpersonInput{
		Kommun:         strings.TrimSpace(m.inputs[FieldKommun].Value()),
		Age:            age,
		BruttolonManad: salary,
		Kyrkomedlem:    m.church,
	})
	employer := m.engine.CalculateArbetsgivare(domain.ArbetsgivareInput{
		BruttolonManad: salary,
		Age:            age,
	})
	m.privat, m.employer = &privat, &employer
}

// View renders the form and, when complete, the results
func (m *TaxModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Skatt och arbetsgivarkostnad"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Kommun", "Ålder", "Bruttolön per månad"}
	for i, label := range labels {
		b.WriteString(tuistyles.LabelStyle.Render(label) + m.inputs[i].View() + "\n")
	}
	church := "nej"
	if m.church {
		church = "ja"
	}
	b.WriteString(tuistyles.Field("Kyrkomedlem (ctrl+k)", church) + "\n\n")

	switch {
	case m.inputError != "":
		b.WriteString(tuistyles.ErrorStyle.Render(m.inputError))
	case m.privat == nil:
		b.WriteString(tuistyles.SubtitleStyle.Render("Fyll i ålder och lön."))
	default:
		kommun := strings.TrimSpace(m.inputs[FieldKommun].Value())
		_, known := m.engine.RatesFor(kommun)
		desc := ""
		if !known {
			desc = "Genomsnittlig kommunalskatt"
		}
		cards := []*components.MetricCard{
			components.NewMetricCard("Nettolön per månad", output.FormatCurrency(m.privat.NettolonManad)).WithDescription(desc),
			components.NewMetricCard("Skatt per år", output.FormatCurrency(m.privat.TotalSkatt)),
			components.NewMetricCard("Arbetsgivarkostnad", output.FormatCurrency(m.employer.TotalkostnadManad)).
				WithDescription("Avgift " + output.FormatPercentage(m.employer.AGRate)),
		}
		b.WriteString(components.MetricGrid(cards, 3))
		b.WriteString("\n")
		b.WriteString(m.breakdown().Render())
		b.WriteString("\n\n")
		b.WriteString(tuistyles.SubtitleStyle.Render(m.engine.DataSources()))
	}

	return tuistyles.BorderStyle.Render(b.String())
}

// breakdown charts each yearly tax component against the yearly salary
func (m *TaxModel) breakdown() *components.BarChart {
	p := m.privat
	chart := components.NewBarChart("Skatt per år, andel av årslön").WithTotal(p.Arslon)
	chart.Add("Kommunal", p.KommunalSkatt).
		Add("Regional", p.RegionalSkatt).
		Add("Statlig", p.StatligSkatt).
		Add("Begravning", p.Begravningsavgift)
	if m.church {
		chart.Add("Kyrka", p.Kyrkoavgift)
	}
	return chart
}
