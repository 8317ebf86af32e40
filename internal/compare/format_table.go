package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing municipalities
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	in := compSet.Input
	sb.WriteString("KOMMUNJÄMFÖRELSE\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Bruttolön %s per månad, ålder %d", output.FormatCurrency(in.BruttolonManad), in.Age))
	if in.Kyrkomedlem {
		sb.WriteString(", kyrkomedlem")
	}
	sb.WriteString(fmt.Sprintf(", skatteår %d\n\n", compSet.TaxYear))

	nameWidth := 16
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %10s %*s %*s\n",
		nameWidth, "Kommun",
		"Skattesats",
		numWidth, "Nettolön/mån",
		numWidth, "Skillnad"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	return sb.String()
}

// formatRow formats a single municipality row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Kommun
	diff := "(bas)"
	if !isBase {
		diff = tf.deltaSymbol(result.NetDiffFromBase) + output.FormatNumber(result.NetDiffFromBase.Abs())
	}

	return fmt.Sprintf("%-*s %10s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		output.FormatPercentage(result.CombinedRate()),
		numWidth, output.FormatNumber(result.NettolonMan),
		numWidth, diff)
}

// deltaSymbol returns + for gains and - for losses
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	switch {
	case delta.IsPositive():
		return "+"
	case delta.IsNegative():
		return "-"
	}
	return " "
}

// truncate shortens s to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a single-line summary
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bas: %s | ", compSet.BaseResult.Kommun))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.NetDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.NetDiffFromBase) + output.FormatNumber(alt.NetDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Kommun, change))
	}
	return sb.String()
}
