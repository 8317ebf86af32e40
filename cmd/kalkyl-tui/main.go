package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
	"github.com/rgehrsitz/kalkyl/internal/tui"
)

func main() {
	// Optional rate table path, the embedded table is used otherwise
	parser := config.NewInputParser()
	var (
		cfg *domain.TaxConfig
		err error
	)
	if len(os.Args) > 1 {
		cfg, err = parser.LoadTaxConfig(os.Args[1])
	} else {
		cfg, err = parser.DefaultTaxConfig()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Usage: kalkyl-tui [rate-table-file]")
		os.Exit(1)
	}

	model := tui.NewModel(calculation.NewTaxEngine(*cfg), personnummer.NewDefaultService())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
