package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// DefaultHoursPerMonth is the monthly hours used for the wage cost per hour
const DefaultHoursPerMonth = 165

// DefaultCurrency is the currency of all wage amounts
const DefaultCurrency = "SEK"

var hundred = decimal.NewFromInt(100)

// WageConfig configures a WageEngine
type WageConfig struct {
	HoursPerMonth decimal.Decimal `yaml:"hours_per_month" json:"hoursPerMonth"`
	Currency      string          `yaml:"currency" json:"currency"`
}

// DefaultWageConfig returns 165 hours per month in SEK
func DefaultWageConfig() WageConfig {
	return WageConfig{
		HoursPerMonth: decimal.NewFromInt(DefaultHoursPerMonth),
		Currency:      DefaultCurrency,
	}
}

// WageEngine turns a WageInput into itemized pay lines. It keeps no state
// between calls and may be shared once configured.
type WageEngine struct {
	config WageConfig
	logger Logger
}

// NewWageEngine creates an engine. A zero HoursPerMonth falls back to the default.
func NewWageEngine(config WageConfig) *WageEngine {
	if config.HoursPerMonth.IsZero() {
		config.HoursPerMonth = decimal.NewFromInt(DefaultHoursPerMonth)
	}
	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	return &WageEngine{config: config, logger: NopLogger{}}
}

// SetLogger sets the logger. Call before sharing the engine between goroutines.
func (e *WageEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.logger = l
}

// Config returns the engine configuration
func (e *WageEngine) Config() WageConfig {
	return e.config
}

// RoundHours rounds value to the nearest multiple of step, halves away from zero.
// RoundingNone and unknown steps return value unchanged.
func RoundHours(value decimal.Decimal, step domain.RoundingStep) decimal.Decimal {
	s, ok := step.Step()
	if !ok {
		return value
	}
	return value.Div(s).Round(0).Mul(s)
}

// DefaultPeriod returns the first and last day of the current month
func DefaultPeriod(c clock.Clock) domain.Period {
	first, last := clock.MonthBounds(c.Now())
	return domain.Period{Start: domain.Date{Time: first}, End: domain.Date{Time: last}}
}

// Calculate prices the input. Lines are emitted in a fixed order: regular
// hours, the additional rows in input order, then vacation pay.
func (e *WageEngine) Calculate(in domain.WageInput) domain.WageResult {
	var (
		items   []domain.WageLineItem
		summary domain.WageSummary
	)

	if in.RegularHours.GreaterThan(decimal.Zero) {
		hours := RoundHours(in.RegularHours, in.RoundingStep)
		amount := hours.Mul(in.HourlyRate)
		summary.RegularAmount = amount

		items = append(items, domain.WageLineItem{
			Type:                  domain.LineRegular,
			Label:                 "Ordinarie tid",
			Hours:                 &hours,
			Rate:                  decimalPtr(in.HourlyRate),
			IncludeInVacationBase: in.VacationBase.Regular,
			Amount:                amount,
			Formula:               fmt.Sprintf("%s h × %s kr", hours.StringFixed(2), in.HourlyRate),
		})
	}

	for i, row := range in.AdditionalRows {
		item, ok := e.priceRow(in, row, &summary)
		if !ok {
			e.logger.Debugf("wage row %d (%s) skipped: nothing to pay", i+1, row.Type())
			continue
		}
		if item.Label == "" {
			item.Label = fmt.Sprintf("%s%d", row.Type(), i+1)
		}
		items = append(items, item)
	}

	for _, item := range items {
		if item.IncludeInVacationBase {
			summary.VacationBaseAmount = summary.VacationBaseAmount.Add(item.Amount)
		}
	}

	summary.VacationAmount = summary.VacationBaseAmount.Mul(in.VacationPercent).Div(hundred)
	if summary.VacationAmount.GreaterThan(decimal.Zero) {
		items = append(items, domain.WageLineItem{
			Type:    domain.LineVacationPay,
			Label:   fmt.Sprintf("Semesterersättning %s%%", in.VacationPercent),
			Amount:  summary.VacationAmount,
			Formula: fmt.Sprintf("%s kr × %s%%", summary.VacationBaseAmount.StringFixed(2), in.VacationPercent),
		})
	}

	for _, item := range items {
		summary.GrossPayAmount = summary.GrossPayAmount.Add(item.Amount)
		e.logger.Debugf("wage line %s %q: %s", item.Type, item.Label, item.Amount)
	}

	return domain.WageResult{
		LineItems:   items,
		Summary:     summary,
		CostPerHour: summary.GrossPayAmount.Div(e.config.HoursPerMonth),
	}
}

// priceRow computes one additional row. ok is false when the row yields
// neither hours nor an amount and must be left out.
func (e *WageEngine) priceRow(in domain.WageInput, row domain.AdditionalRow, summary *domain.WageSummary) (domain.WageLineItem, bool) {
	item := domain.WageLineItem{
		Label:                 row.RowLabel(),
		IncludeInVacationBase: row.InVacationBase(),
	}
	var hours, rate decimal.Decimal

	switch r := row.(type) {
	case domain.OBPercentRow:
		if r.Hours.IsZero() || r.Percent.IsZero() {
			break
		}
		hours = RoundHours(r.Hours, in.RoundingStep)
		rate = in.HourlyRate
		item.Type = domain.LineOB
		item.FactorOrUplift = decimalPtr(r.Percent.Div(hundred))
		item.Amount = hours.Mul(in.HourlyRate).Mul(r.Percent).Div(hundred)
		item.Formula = fmt.Sprintf("%s h × %s kr × %s%%", hours.StringFixed(2), in.HourlyRate, r.Percent)
		summary.OBAmount = summary.OBAmount.Add(item.Amount)

	case domain.OBFixedRow:
		if r.Hours.IsZero() || r.AmountPerHour.IsZero() {
			break
		}
		hours = RoundHours(r.Hours, in.RoundingStep)
		rate = r.AmountPerHour
		item.Type = domain.LineOB
		item.Amount = hours.Mul(r.AmountPerHour)
		item.Formula = fmt.Sprintf("%s h × %s kr", hours.StringFixed(2), r.AmountPerHour)
		summary.OBAmount = summary.OBAmount.Add(item.Amount)

	case domain.OvertimeRow:
		if r.Hours.IsZero() || r.Factor.IsZero() {
			break
		}
		hours = RoundHours(r.Hours, in.RoundingStep)
		rate = in.HourlyRate
		item.Type = domain.LineOvertime
		item.FactorOrUplift = decimalPtr(r.Factor)
		item.Amount = hours.Mul(in.HourlyRate).Mul(r.Factor)
		item.Formula = fmt.Sprintf("%s h × %s kr × %s", hours.StringFixed(2), in.HourlyRate, r.Factor)
		summary.OvertimeAmount = summary.OvertimeAmount.Add(item.Amount)

	case domain.FixedAdditionRow:
		if r.Amount.IsZero() {
			break
		}
		item.Type = domain.LineAddition
		item.Amount = r.Amount
		item.Formula = fmt.Sprintf("%s kr", r.Amount)
		summary.AddonsAmount = summary.AddonsAmount.Add(item.Amount)

	case domain.DeductionRow:
		if r.Amount.IsZero() {
			break
		}
		item.Type = domain.LineAbsence
		item.Amount = r.Amount.Abs().Neg()
		item.Formula = fmt.Sprintf("%s kr (avdrag)", r.Amount.Abs())
		summary.AbsenceAmount = summary.AbsenceAmount.Add(item.Amount)
	}

	if item.Amount.IsZero() && hours.IsZero() {
		return domain.WageLineItem{}, false
	}
	if hours.GreaterThan(decimal.Zero) {
		item.Hours = &hours
	}
	if rate.GreaterThan(decimal.Zero) {
		item.Rate = &rate
	}
	return item, true
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
