package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar date format used in wage input files and the API
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings leave the date zero.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}

// Period is the inclusive pay period
type Period struct {
	Start Date `yaml:"start" json:"start"`
	End   Date `yaml:"end" json:"end"`
}

// PayMonth returns the YYYY-MM of the period start
func (p Period) PayMonth() string {
	if p.Start.IsZero() {
		return ""
	}
	return p.Start.Format("2006-01")
}

// Employer identifies who pays the wage
type Employer struct {
	Name string `yaml:"name" json:"name"`
}

// Employee identifies who receives the wage
type Employee struct {
	Name string `yaml:"name" json:"name"`
	ID   string `yaml:"id" json:"id"`
}

// RoundingStep controls how hour values are rounded before pricing
type RoundingStep string

const (
	RoundingNone    RoundingStep = "none"
	RoundingQuarter RoundingStep = "0.25"
	RoundingHalf    RoundingStep = "0.5"
)

// Step returns the numeric step. ok is false for RoundingNone and for
// values outside the known set, which are treated as no rounding.
func (s RoundingStep) Step() (step decimal.Decimal, ok bool) {
	switch s {
	case RoundingQuarter:
		return decimal.RequireFromString("0.25"), true
	case RoundingHalf:
		return decimal.RequireFromString("0.5"), true
	default:
		return decimal.Zero, false
	}
}

// VacationBaseFlags selects which pay categories accrue vacation pay.
// They are advisory defaults for a UI; the engine uses the per-row flags.
type VacationBaseFlags struct {
	Regular  bool `yaml:"regular" json:"regular"`
	OB       bool `yaml:"ob" json:"ob"`
	Overtime bool `yaml:"overtime" json:"overtime"`
	Merit    bool `yaml:"merit" json:"merit"`
	Addons   bool `yaml:"addons" json:"addons"`
}

// WageInput is one pay period for one employee
type WageInput struct {
	Period          Period            `yaml:"period" json:"period"`
	Employer        *Employer         `yaml:"employer,omitempty" json:"employer,omitempty"`
	Employee        *Employee         `yaml:"employee,omitempty" json:"employee,omitempty"`
	HourlyRate      decimal.Decimal   `yaml:"hourly_rate" json:"hourlyRate" validate:"gt=0"`
	RoundingStep    RoundingStep      `yaml:"rounding_step" json:"roundingStep" validate:"omitempty,oneof=none 0.25 0.5"`
	RegularHours    decimal.Decimal   `yaml:"regular_hours" json:"regularHours" validate:"gte=0"`
	AdditionalRows  AdditionalRows    `yaml:"additional_rows" json:"additionalRows"`
	VacationPercent decimal.Decimal   `yaml:"vacation_percent" json:"vacationPercent" validate:"gte=0"`
	VacationBase    VacationBaseFlags `yaml:"vacation_base" json:"vacationBase"`
}

// EmployerName returns the employer name or "" when absent
func (in WageInput) EmployerName() string {
	if in.Employer == nil {
		return ""
	}
	return in.Employer.Name
}

// EmployeeName returns the employee name or "" when absent
func (in WageInput) EmployeeName() string {
	if in.Employee == nil {
		return ""
	}
	return in.Employee.Name
}

// EmployeeID returns the employee id or "" when absent
func (in WageInput) EmployeeID() string {
	if in.Employee == nil {
		return ""
	}
	return in.Employee.ID
}

// LineType is the category shown on a pay line
type LineType string

const (
	LineRegular     LineType = "Ordinarie"
	LineOB          LineType = "OB"
	LineOvertime    LineType = "Övertid"
	LineAddition    LineType = "Tillägg"
	LineAbsence     LineType = "Frånvaro"
	LineVacationPay LineType = "Semesterersättning"
)

// WageLineItem is one itemized row of a calculation.
// Hours and Rate are nil when not applicable.
type WageLineItem struct {
	Type                  LineType         `yaml:"type" json:"type"`
	Label                 string           `yaml:"label" json:"label"`
	Hours                 *decimal.Decimal `yaml:"hours,omitempty" json:"hours,omitempty"`
	Rate                  *decimal.Decimal `yaml:"rate,omitempty" json:"rate,omitempty"`
	FactorOrUplift        *decimal.Decimal `yaml:"factor_or_uplift,omitempty" json:"factorOrUplift,omitempty"`
	IncludeInVacationBase bool             `yaml:"include_in_vacation_base" json:"includeInVacationBase"`
	Amount                decimal.Decimal  `yaml:"amount" json:"amount"`
	Formula               string           `yaml:"formula" json:"formula"`
}

// WageSummary aggregates the line items per category
type WageSummary struct {
	RegularAmount      decimal.Decimal `yaml:"regular_amount" json:"regularAmount"`
	OBAmount           decimal.Decimal `yaml:"ob_amount" json:"obAmount"`
	OvertimeAmount     decimal.Decimal `yaml:"overtime_amount" json:"overtimeAmount"`
	MeritAmount        decimal.Decimal `yaml:"merit_amount" json:"meritAmount"`
	AbsenceAmount      decimal.Decimal `yaml:"absence_amount" json:"absenceAmount"`
	AddonsAmount       decimal.Decimal `yaml:"addons_amount" json:"addonsAmount"`
	VacationBaseAmount decimal.Decimal `yaml:"vacation_base_amount" json:"vacationBaseAmount"`
	VacationAmount     decimal.Decimal `yaml:"vacation_amount" json:"vacationAmount"`
	GrossPayAmount     decimal.Decimal `yaml:"gross_pay_amount" json:"grossPayAmount"`
}

// WageResult is the full output of a wage calculation
type WageResult struct {
	LineItems   []WageLineItem  `yaml:"line_items" json:"lineItems"`
	Summary     WageSummary     `yaml:"summary" json:"summary"`
	CostPerHour decimal.Decimal `yaml:"cost_per_hour" json:"costPerHour"`
}

// Payslip pairs an input with its result for export
type Payslip struct {
	Input  WageInput  `yaml:"input" json:"input"`
	Result WageResult `yaml:"result" json:"result"`
}
