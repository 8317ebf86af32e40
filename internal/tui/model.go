// Package tui is an interactive terminal front end for the validators and
// the tax calculator.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
	"github.com/rgehrsitz/kalkyl/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Scene-specific models
	personnummerModel *scenes.PersonnummerModel
	ocrModel          *scenes.OCRModel
	generateModel     *scenes.GenerateModel
	taxModel          *scenes.TaxModel

	help help.Model
}

// NewModel creates a new application model
func NewModel(tax *calculation.TaxEngine, pnr *personnummer.Service) Model {
	return Model{
		currentScene:      ScenePersonnummer,
		personnummerModel: scenes.NewPersonnummerModel(),
		ocrModel:          scenes.NewOCRModel(),
		generateModel:     scenes.NewGenerateModel(pnr),
		taxModel:          scenes.NewTaxModel(tax),
		help:              help.New(),
		width:             80,
		height:            24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return m.personnummerModel.Focus()
}

// CurrentScene returns the scene on screen
func (m Model) CurrentScene() Scene {
	return m.currentScene
}
