package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

//go:embed taxtables/*.yaml
var taxTables embed.FS

// DefaultTaxYear is the year of the embedded rate table used when none is given
const DefaultTaxYear = 2025

// Age range every tax table must cover
const (
	MinCoveredAge = 0
	MaxCoveredAge = 150
)

// InputParser handles parsing of input files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: NewValidator("yaml")}
}

// LoadWageInput loads a wage input from a YAML or JSON file
func (ip *InputParser) LoadWageInput(filename string) (*domain.WageInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input domain.WageInput
	if err := decode(filename, data, &input); err != nil {
		return nil, err
	}

	if err := ip.ValidateWageInput(&input); err != nil {
		return nil, fmt.Errorf("wage input validation failed: %w", err)
	}

	return &input, nil
}

// LoadTaxConfig loads a rate table from a YAML or JSON file
func (ip *InputParser) LoadTaxConfig(filename string) (*domain.TaxConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.parseTaxConfig(filename, data)
}

// DefaultTaxConfig returns the embedded rate table for DefaultTaxYear
func (ip *InputParser) DefaultTaxConfig() (*domain.TaxConfig, error) {
	return ip.EmbeddedTaxConfig(DefaultTaxYear)
}

// EmbeddedTaxConfig returns the embedded rate table for year
func (ip *InputParser) EmbeddedTaxConfig(year int) (*domain.TaxConfig, error) {
	name := fmt.Sprintf("taxtables/%d.yaml", year)
	data, err := taxTables.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("no embedded tax table for %d: %w", year, err)
	}
	return ip.parseTaxConfig(name, data)
}

// EmbeddedTaxYears lists the years with an embedded rate table
func EmbeddedTaxYears() []int {
	entries, _ := taxTables.ReadDir("taxtables")
	var years []int
	for _, e := range entries {
		var y int
		if _, err := fmt.Sscanf(e.Name(), "%d.yaml", &y); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

func (ip *InputParser) parseTaxConfig(name string, data []byte) (*domain.TaxConfig, error) {
	var config domain.TaxConfig
	if err := decode(name, data, &config); err != nil {
		return nil, err
	}
	if err := ip.ValidateTaxConfig(&config); err != nil {
		return nil, fmt.Errorf("tax table validation failed: %w", err)
	}
	return &config, nil
}

// ValidateWageInput checks field ranges and the pay period
func (ip *InputParser) ValidateWageInput(input *domain.WageInput) error {
	if err := ip.validate.Struct(input); err != nil {
		return fmt.Errorf("%s: %w", DescribeValidation(err), err)
	}
	if !input.Period.Start.IsZero() && !input.Period.End.IsZero() && input.Period.End.Before(input.Period.Start.Time) {
		return fmt.Errorf("period end %s is before start %s", input.Period.End, input.Period.Start)
	}
	for i, row := range input.AdditionalRows {
		if err := validateRow(row); err != nil {
			return fmt.Errorf("additional row %d: %w", i+1, err)
		}
	}
	return nil
}

func validateRow(row domain.AdditionalRow) error {
	switch r := row.(type) {
	case domain.OBPercentRow:
		return nonNegative("hours", r.Hours, "percent", r.Percent)
	case domain.OBFixedRow:
		return nonNegative("hours", r.Hours, "amount_per_hour", r.AmountPerHour)
	case domain.OvertimeRow:
		return nonNegative("hours", r.Hours, "factor", r.Factor)
	case domain.FixedAdditionRow:
		return nonNegative("amount", r.Amount)
	case domain.DeductionRow:
		return nil
	default:
		return fmt.Errorf("unsupported row %T", row)
	}
}

// nonNegative takes name/value pairs
func nonNegative(pairs ...interface{}) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		if v := pairs[i+1].(decimal.Decimal); v.IsNegative() {
			return fmt.Errorf("%s must not be negative, got %s", name, v)
		}
	}
	return nil
}

// ValidateTaxConfig checks rate ranges, the FALLBACK entry and the age brackets
func (ip *InputParser) ValidateTaxConfig(config *domain.TaxConfig) error {
	if err := ip.validate.Struct(config); err != nil {
		return fmt.Errorf("%s: %w", DescribeValidation(err), err)
	}
	if _, ok := config.KommunSkattMap[domain.FallbackMunicipality]; !ok {
		return fmt.Errorf("kommun_skatt_map must contain a %s entry", domain.FallbackMunicipality)
	}
	return validateAgeBrackets(config.AGProcByAge)
}

// validateAgeBrackets requires non-overlapping brackets that together cover every age
func validateAgeBrackets(brackets []domain.AgeBracket) error {
	sorted := make([]domain.AgeBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinAge < sorted[j].MinAge })

	next := MinCoveredAge
	for _, b := range sorted {
		switch {
		case b.MinAge < next:
			return fmt.Errorf("age bracket %d-%d overlaps the previous bracket", b.MinAge, b.MaxAge)
		case b.MinAge > next:
			return fmt.Errorf("ages %d-%d are not covered by any bracket", next, b.MinAge-1)
		}
		next = b.MaxAge + 1
	}
	if next <= MaxCoveredAge {
		return fmt.Errorf("ages %d-%d are not covered by any bracket", next, MaxCoveredAge)
	}
	return nil
}

// CreateExampleWageInput returns a filled-in wage input for the given period
func CreateExampleWageInput(period domain.Period) domain.WageInput {
	return domain.WageInput{
		Period:          period,
		Employer:        &domain.Employer{Name: "Exempelbolaget AB"},
		Employee:        &domain.Employee{Name: "Anna Andersson", ID: "A-1001"},
		HourlyRate:      decimal.NewFromInt(150),
		RoundingStep:    domain.RoundingQuarter,
		RegularHours:    decimal.NewFromInt(160),
		VacationPercent: decimal.NewFromInt(12),
		VacationBase:    domain.VacationBaseFlags{Regular: true, OB: true},
		AdditionalRows: domain.AdditionalRows{
			domain.OBPercentRow{Label: "OB kväll", Hours: decimal.NewFromInt(8), Percent: decimal.NewFromInt(20), Include: true},
			domain.OBFixedRow{Label: "OB helg", Hours: decimal.NewFromInt(6), AmountPerHour: decimal.NewFromInt(50), Include: true},
			domain.OvertimeRow{Label: "Övertid", Hours: decimal.NewFromInt(4), Factor: decimal.RequireFromString("1.5")},
			domain.FixedAdditionRow{Label: "Friskvårdsbidrag", Amount: decimal.NewFromInt(500)},
			domain.DeductionRow{Label: "Sjukavdrag", Amount: decimal.NewFromInt(1200)},
		},
	}
}

// SaveWageInput writes input to filename as YAML, or JSON for a .json name
func (ip *InputParser) SaveWageInput(filename string, input domain.WageInput) error {
	var (
		data []byte
		err  error
	)
	if isJSON(filename) {
		data, err = json.MarshalIndent(input, "", "  ")
	} else {
		data, err = yaml.Marshal(input)
	}
	if err != nil {
		return fmt.Errorf("failed to encode wage input: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

func decode(filename string, data []byte, v interface{}) error {
	if isJSON(filename) {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func isJSON(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}
