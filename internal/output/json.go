package output

import (
	"github.com/goccy/go-json"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// JSONFormatter writes the input and result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(p *domain.Payslip) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
