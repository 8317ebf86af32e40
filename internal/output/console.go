package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// ConsoleFormatter renders a payslip as an aligned text table
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(p *domain.Payslip) ([]byte, error) {
	var sb strings.Builder
	in, res := p.Input, p.Result

	title := "LÖNEUNDERLAG"
	if name := in.EmployeeName(); name != "" {
		title += " - " + name
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")
	if name := in.EmployerName(); name != "" {
		fmt.Fprintf(&sb, "Arbetsgivare: %s\n", name)
	}
	if id := in.EmployeeID(); id != "" {
		fmt.Fprintf(&sb, "Anställningsnr: %s\n", id)
	}
	fmt.Fprintf(&sb, "Period: %s – %s\n\n", in.Period.Start, in.Period.End)

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Typ\tBeskrivning\tTimmar\tBelopp\tUträkning\t")
	for _, item := range res.LineItems {
		hours := ""
		if item.Hours != nil {
			hours = FormatNumber(*item.Hours)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", item.Type, item.Label, hours, FormatCurrency(item.Amount), item.Formula)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	s := res.Summary
	sb.WriteString("\nSAMMANFATTNING\n")
	sb.WriteString("--------------\n")
	fmt.Fprintf(&sb, "  Ordinarie:             %s\n", FormatCurrency(s.RegularAmount))
	fmt.Fprintf(&sb, "  OB:                    %s\n", FormatCurrency(s.OBAmount))
	fmt.Fprintf(&sb, "  Övertid:               %s\n", FormatCurrency(s.OvertimeAmount))
	fmt.Fprintf(&sb, "  Tillägg:               %s\n", FormatCurrency(s.AddonsAmount))
	fmt.Fprintf(&sb, "  Frånvaro:              %s\n", FormatCurrency(s.AbsenceAmount))
	fmt.Fprintf(&sb, "  Semesterunderlag:      %s\n", FormatCurrency(s.VacationBaseAmount))
	fmt.Fprintf(&sb, "  Semesterersättning:    %s\n", FormatCurrency(s.VacationAmount))
	fmt.Fprintf(&sb, "  BRUTTOLÖN:             %s\n", FormatCurrency(s.GrossPayAmount))
	fmt.Fprintf(&sb, "  Kostnad per timme:     %s\n", FormatCurrency(res.CostPerHour))

	return []byte(sb.String()), nil
}
