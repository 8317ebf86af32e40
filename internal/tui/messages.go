package tui

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePersonnummer Scene = iota
	SceneOCR
	SceneGenerate
	SceneTax
	SceneHelp
	sceneCount
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case ScenePersonnummer:
		return "Personnummer"
	case SceneOCR:
		return "OCR"
	case SceneGenerate:
		return "Generera"
	case SceneTax:
		return "Skatt"
	case SceneHelp:
		return "Hjälp"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}
