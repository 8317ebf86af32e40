package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case ScenePersonnummer:
		content = m.personnummerModel.View()
	case SceneOCR:
		content = m.ocrModel.View()
	case SceneGenerate:
		content = m.generateModel.View()
	case SceneTax:
		content = m.taxModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		StatusBarStyle.Render(m.help.View(keys)),
	)
}

// renderTitleBar renders the application title and the scene tabs
func (m Model) renderTitleBar() string {
	tabs := make([]string, 0, sceneCount)
	for s := Scene(0); s < sceneCount; s++ {
		style := InactiveTabStyle
		if s == m.currentScene {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(s.String()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("Kalkyl"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := strings.TrimSpace(`
KORTKOMMANDON:
  ctrl+n       Nästa vy
  ctrl+p       Föregående vy
  f1           Visa eller dölj hjälp
  esc/ctrl+c   Avsluta

PERSONNUMMER:
  Skriv siffror. Bindestreck läggs till efter sex siffror.
  Utan kontrollsiffra föreslås en.

OCR:
  Sista siffran kontrolleras med Luhn-algoritmen.

SKATT:
  tab/shift+tab  Byt fält
  ctrl+k         Växla kyrkomedlemskap
`)
	return BorderStyle.Render(helpText)
}
