package output

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// PDFFormatter renders a single-page payslip document
type PDFFormatter struct {
	Clock clock.Clock
}

func (f PDFFormatter) Name() string { return "pdf" }

func (f PDFFormatter) Format(p *domain.Payslip) ([]byte, error) {
	c := f.Clock
	if c == nil {
		c = clock.System{}
	}
	return buildPDF(PayslipLines(p, c))
}

// PayslipLines returns the text lines printed on the payslip document
func PayslipLines(p *domain.Payslip, c clock.Clock) []string {
	in, res := p.Input, p.Result

	title := "Timlöneunderlag"
	if name := in.EmployeeName(); name != "" {
		title += " – " + name
	}
	title += fmt.Sprintf(" – %s–%s", in.Period.Start, in.Period.End)

	lines := []string{title}
	if id := in.EmployeeID(); id != "" {
		lines = append(lines, "Anställningsnr: "+id)
	}
	if name := in.EmployerName(); name != "" {
		lines = append(lines, "Arbetsgivare: "+name)
	}
	lines = append(lines, "Skapad: "+c.Now().Format("2006-01-02 15:04"), "")

	for _, item := range res.LineItems {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  (%s)", item.Type, item.Label, FormatCurrency(item.Amount), item.Formula))
	}

	lines = append(lines,
		"",
		"Semesterunderlag: "+FormatCurrency(res.Summary.VacationBaseAmount),
		"Bruttolön: "+FormatCurrency(res.Summary.GrossPayAmount),
	)
	return lines
}

var winAnsi = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

// buildPDF lays out lines top to bottom in Helvetica on an A4 page
func buildPDF(lines []string) ([]byte, error) {
	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		encoded, err := winAnsi.String(line)
		if err != nil {
			return nil, fmt.Errorf("encode pdf text: %w", err)
		}
		if i == 0 {
			fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(encoded))
			continue
		}
		fmt.Fprintf(&content, "T* (%s) Tj\n", pdfEscape(encoded))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := []int{0}
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	return strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)").Replace(v)
}
