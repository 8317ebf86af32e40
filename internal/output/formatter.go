package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// Formatter renders a payslip in one output format
type Formatter interface {
	Name() string
	Format(p *domain.Payslip) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(p *domain.Payslip) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(p *domain.Payslip) ([]byte, error) { return f.F(p) }

// Options configures the built-in formatters
type Options struct {
	// ShowZeroRows keeps csv-lines rows whose amount or hours is zero
	ShowZeroRows bool
	// Clock stamps generated documents. Defaults to the system clock.
	Clock clock.Clock
}

type formatInfo struct {
	ext         string
	contentType string
	build       func(Options) Formatter
}

var formats = map[string]formatInfo{
	"console": {"txt", "text/plain; charset=utf-8", func(Options) Formatter { return ConsoleFormatter{} }},
	"json":    {"json", "application/json", func(Options) Formatter { return JSONFormatter{} }},
	"csv-lines": {"csv", "text/csv; charset=utf-8", func(o Options) Formatter {
		return CSVLinesFormatter{ShowZeroRows: o.ShowZeroRows}
	}},
	"csv-summary": {"csv", "text/csv; charset=utf-8", func(Options) Formatter { return CSVSummaryFormatter{} }},
	"pdf":         {"pdf", "application/pdf", func(o Options) Formatter { return PDFFormatter{Clock: o.Clock} }},
}

var aliases = map[string]string{
	"table": "console",
	"text":  "console",
	"csv":   "csv-lines",
}

func canonical(name string) string {
	if target, ok := aliases[name]; ok {
		return target
	}
	return name
}

// NewFormatter returns the named formatter configured with opts
func NewFormatter(name string, opts Options) (Formatter, error) {
	info, ok := formats[canonical(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", name)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	return info.build(opts), nil
}

// GetFormatterByName returns the named formatter with default options, or nil
func GetFormatterByName(name string) Formatter {
	f, err := NewFormatter(name, Options{})
	if err != nil {
		return nil
	}
	return f
}

// AvailableFormatterNames lists the formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted alternative names, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension for a format, without the dot
func Extension(name string) string {
	if info, ok := formats[canonical(name)]; ok {
		return info.ext
	}
	return "txt"
}

// ContentType returns the MIME type for a format
func ContentType(name string) string {
	if info, ok := formats[canonical(name)]; ok {
		return info.contentType
	}
	return "application/octet-stream"
}

// FileName returns lonespec_<kind>_<YYYY-MM>.<ext> for a payslip
func FileName(kind string, p *domain.Payslip, ext string) string {
	month := p.Input.Period.PayMonth()
	if month == "" {
		month = "undated"
	}
	return fmt.Sprintf("lonespec_%s_%s.%s", kind, month, ext)
}

// WriteFormatted formats p and writes it into dir under FileName. It returns the path written.
func WriteFormatted(f Formatter, p *domain.Payslip, dir, ext string) (string, error) {
	data, err := f.Format(p)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(f.Name(), p, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
