package output

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var svPrinter = message.NewPrinter(language.Swedish)

// plain maps the locale's no-break spaces and minus sign to ASCII
var plain = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2212", "-")

// FormatNumber formats d with two decimals in Swedish notation, e.g. "24 000,00"
func FormatNumber(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return plain.Replace(svPrinter.Sprintf("%.2f", f))
}

// FormatCurrency formats d as Swedish kronor, e.g. "24 000,00 kr"
func FormatCurrency(d decimal.Decimal) string {
	return FormatNumber(d) + " kr"
}

// FormatPercentage formats a percentage value, e.g. "31,42 %"
func FormatPercentage(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1) + " %"
}

// FormatHours formats an hour value with two decimals, e.g. "8,25 h"
func FormatHours(d decimal.Decimal) string {
	return FormatNumber(d) + " h"
}
