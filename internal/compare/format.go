package compare

import "fmt"

// Format renders compSet as "table", "csv" or "json"
func Format(format string, compSet *ComparisonSet) (string, error) {
	switch format {
	case "table", "console", "":
		return (&TableFormatter{}).Format(compSet), nil
	case "csv":
		return (&CSVFormatter{}).Format(compSet)
	case "json":
		return (&JSONFormatter{Pretty: true}).Format(compSet)
	}
	return "", fmt.Errorf("unsupported format: %s (valid: table, csv, json)", format)
}
