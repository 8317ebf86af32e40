package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"kommun",
		"type",
		"kommun_proc",
		"region_proc",
		"total_skatt",
		"nettolon_manad",
		"net_diff_from_base",
		"net_pct_from_base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, rowType string) []string {
	return []string{
		result.Kommun,
		rowType,
		result.KommunProc.StringFixed(2),
		result.RegionProc.StringFixed(2),
		result.TotalSkatt.StringFixed(2),
		result.NettolonMan.StringFixed(2),
		result.NetDiffFromBase.StringFixed(2),
		result.NetPctFromBase.StringFixed(2),
	}
}
