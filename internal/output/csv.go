package output

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// CSVLinesHeader is the header of the line item export
var CSVLinesHeader = []string{
	"pay_month", "employer_name", "period_start", "period_end",
	"employee_id", "employee_name", "row_type", "row_label",
	"hours", "rate", "factor_or_uplift", "include_in_vacation_base",
	"amount", "formula_text",
}

// CSVSummaryHeader is the header of the one-row summary export
var CSVSummaryHeader = []string{
	"pay_month", "employer_name", "employee_id", "employee_name",
	"regular_hours", "hourly_rate", "regular_amount", "ob_amount",
	"overtime_amount", "addons_amount", "deductions_amount",
	"vacation_base_amount", "vacation_percent", "vacation_amount",
	"gross_pay_amount",
}

// CSVLinesFormatter writes one CSV row per line item
type CSVLinesFormatter struct {
	ShowZeroRows bool
}

func (c CSVLinesFormatter) Name() string { return "csv-lines" }

func (c CSVLinesFormatter) Format(p *domain.Payslip) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(CSVLinesHeader); err != nil {
		return nil, err
	}

	in := p.Input
	for _, item := range p.Result.LineItems {
		if !c.ShowZeroRows && isZeroLine(item) {
			continue
		}
		row := []string{
			in.Period.PayMonth(),
			in.EmployerName(),
			in.Period.Start.String(),
			in.Period.End.String(),
			in.EmployeeID(),
			in.EmployeeName(),
			string(item.Type),
			item.Label,
			optionalFixed(item.Hours),
			optionalFixed(item.Rate),
			optionalFixed(item.FactorOrUplift),
			boolCell(item.IncludeInVacationBase),
			item.Amount.StringFixed(2),
			item.Formula,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// isZeroLine reports lines with a zero amount, or an hour field that is present and zero
func isZeroLine(item domain.WageLineItem) bool {
	if item.Amount.IsZero() {
		return true
	}
	return item.Hours != nil && item.Hours.IsZero()
}

// CSVSummaryFormatter writes the period totals as a single CSV row
type CSVSummaryFormatter struct{}

func (c CSVSummaryFormatter) Name() string { return "csv-summary" }

func (c CSVSummaryFormatter) Format(p *domain.Payslip) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(CSVSummaryHeader); err != nil {
		return nil, err
	}

	in, s := p.Input, p.Result.Summary
	addons, deductions := splitAdjustments(p.Result.LineItems)

	row := []string{
		in.Period.PayMonth(),
		in.EmployerName(),
		in.EmployeeID(),
		in.EmployeeName(),
		in.RegularHours.StringFixed(2),
		in.HourlyRate.StringFixed(2),
		s.RegularAmount.StringFixed(2),
		s.OBAmount.StringFixed(2),
		s.OvertimeAmount.StringFixed(2),
		addons.StringFixed(2),
		deductions.StringFixed(2),
		s.VacationBaseAmount.StringFixed(2),
		in.VacationPercent.StringFixed(2),
		s.VacationAmount.StringFixed(2),
		s.GrossPayAmount.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// splitAdjustments sums positive additions and the magnitude of every negative line
func splitAdjustments(items []domain.WageLineItem) (addons, deductions decimal.Decimal) {
	for _, item := range items {
		if item.Type == domain.LineAddition && item.Amount.IsPositive() {
			addons = addons.Add(item.Amount)
		}
		if item.Amount.IsNegative() {
			deductions = deductions.Add(item.Amount.Abs())
		}
	}
	return addons, deductions
}

func optionalFixed(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
