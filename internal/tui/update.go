package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.personnummerModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Scene)

	case tuimsg.CheckNumberMsg:
		m.personnummerModel.SetValue(msg.Number)
		return m.navigate(ScenePersonnummer)
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes global shortcuts, then hands the key to the scene
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		if m.currentScene == SceneHelp {
			return m.navigate(m.previousScene)
		}
		return m.navigate(SceneHelp)
	case key.Matches(msg, keys.Next):
		return m.navigate((m.currentScene + 1) % sceneCount)
	case key.Matches(msg, keys.Prev):
		return m.navigate((m.currentScene + sceneCount - 1) % sceneCount)
	}

	return m.updateCurrentScene(msg)
}

// navigate switches scenes and moves input focus along
func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if scene == m.currentScene {
		return m, nil
	}

	m.personnummerModel.Blur()
	m.ocrModel.Blur()
	m.taxModel.Blur()

	m.previousScene = m.currentScene
	m.currentScene = scene

	var cmd tea.Cmd
	switch scene {
	case ScenePersonnummer:
		cmd = m.personnummerModel.Focus()
	case SceneOCR:
		cmd = m.ocrModel.Focus()
	case SceneTax:
		cmd = m.taxModel.Focus()
	}
	return m, cmd
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case ScenePersonnummer:
		m.personnummerModel, cmd = m.personnummerModel.Update(msg)
	case SceneOCR:
		m.ocrModel, cmd = m.ocrModel.Update(msg)
	case SceneGenerate:
		m.generateModel, cmd = m.generateModel.Update(msg)
	case SceneTax:
		m.taxModel, cmd = m.taxModel.Update(msg)
	}
	return m, cmd
}
