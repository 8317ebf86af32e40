package output

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// FormatPrivatperson renders an individual tax result as "console" or "json"
func FormatPrivatperson(format string, in domain.PrivatpersonInput, res *domain.PrivatpersonResult) ([]byte, error) {
	switch canonical(format) {
	case "json":
		return json.MarshalIndent(struct {
			Input  domain.PrivatpersonInput   `json:"input"`
			Result *domain.PrivatpersonResult `json:"result"`
		}{in, res}, "", "  ")
	case "console":
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	var sb strings.Builder
	sb.WriteString("SKATTEBERÄKNING - PRIVATPERSON\n")
	sb.WriteString("==============================\n")
	fmt.Fprintf(&sb, "Kommun: %s, ålder %d", in.Kommun, in.Age)
	if in.Kyrkomedlem {
		sb.WriteString(", kyrkomedlem")
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "  Bruttolön per månad:   %s\n", FormatCurrency(in.BruttolonManad))
	if !in.ExtraAvdragManad.IsZero() {
		fmt.Fprintf(&sb, "  Extra avdrag:          %s\n", FormatCurrency(in.ExtraAvdragManad))
	}
	fmt.Fprintf(&sb, "  Årslön:                %s\n\n", FormatCurrency(res.Arslon))
	fmt.Fprintf(&sb, "  Kommunal skatt:        %s\n", FormatCurrency(res.KommunalSkatt))
	fmt.Fprintf(&sb, "  Regional skatt:        %s\n", FormatCurrency(res.RegionalSkatt))
	fmt.Fprintf(&sb, "  Statlig skatt:         %s\n", FormatCurrency(res.StatligSkatt))
	fmt.Fprintf(&sb, "  Begravningsavgift:     %s\n", FormatCurrency(res.Begravningsavgift))
	fmt.Fprintf(&sb, "  Kyrkoavgift:           %s\n", FormatCurrency(res.Kyrkoavgift))
	fmt.Fprintf(&sb, "  TOTAL SKATT (år):      %s\n", FormatCurrency(res.TotalSkatt))
	fmt.Fprintf(&sb, "  NETTOLÖN (månad):      %s\n", FormatCurrency(res.NettolonManad))
	return []byte(sb.String()), nil
}

// FormatArbetsgivare renders an employer cost result as "console" or "json"
func FormatArbetsgivare(format string, in domain.ArbetsgivareInput, res *domain.ArbetsgivareResult) ([]byte, error) {
	switch canonical(format) {
	case "json":
		return json.MarshalIndent(struct {
			Input  domain.ArbetsgivareInput   `json:"input"`
			Result *domain.ArbetsgivareResult `json:"result"`
		}{in, res}, "", "  ")
	case "console":
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	var sb strings.Builder
	sb.WriteString("ARBETSGIVARKOSTNAD\n")
	sb.WriteString("==================\n")
	fmt.Fprintf(&sb, "Ålder %d, arbetsgivaravgift %s\n\n", in.Age, FormatPercentage(res.AGRate))
	fmt.Fprintf(&sb, "  Bruttolön:             %s\n", FormatCurrency(res.BruttolonManad))
	fmt.Fprintf(&sb, "  Arbetsgivaravgift:     %s\n", FormatCurrency(res.Arbetsgivaravgift))
	fmt.Fprintf(&sb, "  Semesterpåslag:        %s (%s)\n", FormatCurrency(res.Semesterpaslag), FormatPercentage(in.SemesterProc))
	fmt.Fprintf(&sb, "  Pension:               %s (%s)\n", FormatCurrency(res.Pension), FormatPercentage(in.PensionProc))
	fmt.Fprintf(&sb, "  TOTALKOSTNAD (månad):  %s\n", FormatCurrency(res.TotalkostnadManad))
	fmt.Fprintf(&sb, "  Kostnad per timme:     %s\n", FormatCurrency(res.KostnadPerTimme))
	return []byte(sb.String()), nil
}
