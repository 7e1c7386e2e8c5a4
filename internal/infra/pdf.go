package infra

// pdf.go renders the monthly timesheet with go-pdf/fpdf: an A4 page with
// the worker header, one row per worked day, the total and the signature
// state of the month.

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"workforce/internal/service"

	"github.com/go-pdf/fpdf"
)

// TimesheetPDF implements service.TimesheetRenderer.
type TimesheetPDF struct {
	// AppName is printed in the page header.
	AppName string
	// FontPath is a UTF-8 TrueType font (e.g. DejaVuSans.ttf) used for every
	// style. Without it the core Helvetica font is used and text is mapped to
	// cp1252, which cannot show Hebrew names.
	FontPath string
}

// Validate reports a configured font that cannot be read, so a bad
// PDF_FONT_PATH fails at startup instead of on the first report.
func (r TimesheetPDF) Validate() error {
	if r.FontPath == "" {
		return nil
	}
	if _, err := os.Stat(r.FontPath); err != nil {
		return fmt.Errorf("pdf: font: %w", err)
	}
	return nil
}

// setupFont registers the body font and returns its family together with
// the translator text must pass through.
func (r TimesheetPDF) setupFont(pdf *fpdf.Fpdf) (string, func(string) string) {
	if r.FontPath == "" {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	const family = "body"
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8Font(family, style, r.FontPath)
	}
	// TODO: apply bidi ordering so Hebrew runs read right to left inside mixed lines.
	return family, func(s string) string { return s }
}

func (r TimesheetPDF) RenderTimesheet(ts service.Timesheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	family, tr := r.setupFont(pdf)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: load font %s: %w", r.FontPath, err)
	}
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	app := r.AppName
	if app == "" {
		app = "Workforce"
	}
	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(contentW, 9, tr(app+" - "+ts.Title()), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 10)
	if ts.Worker != nil {
		pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Worker: %s (%s)", ts.Worker.Name, ts.Worker.Username)), "", 1, "L", false, 0, "")
		if ts.Worker.IDNumber != nil && *ts.Worker.IDNumber != "" {
			pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("%s: %s", strings.ToUpper(ts.Worker.IDType), *ts.Worker.IDNumber)), "", 1, "L", false, 0, "")
		}
	}
	if ts.CompanyName != "" {
		pdf.CellFormat(contentW, 6, tr("Company: "+ts.CompanyName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Rows ─────────────────────────────────────────────────────────────────
	colDate := contentW * 0.20
	colFrom := contentW * 0.12
	colTo := contentW * 0.12
	colHours := contentW * 0.14
	colNote := contentW - colDate - colFrom - colTo - colHours

	pdf.SetFont(family, "B", 9)
	pdf.SetFillColor(235, 235, 245)
	pdf.CellFormat(colDate, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colFrom, 7, "From", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colTo, 7, "To", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colHours, 7, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colNote, 7, "Note", "1", 1, "L", true, 0, "")

	pdf.SetFont(family, "", 9)
	for _, h := range ts.Hours {
		note := deref(h.Note)
		if runes := []rune(note); len(runes) > 60 {
			note = string(runes[:57]) + "..."
		}
		pdf.CellFormat(colDate, 6, h.WorkDate, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colFrom, 6, deref(h.StartTime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colTo, 6, deref(h.EndTime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colHours, 6, h.Hours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colNote, 6, tr(note), "1", 1, "L", false, 0, "")
	}
	if len(ts.Hours) == 0 {
		pdf.SetFont(family, "I", 9)
		pdf.CellFormat(contentW, 6, "No hours recorded for this month.", "1", 1, "C", false, 0, "")
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(colDate+colFrom+colTo, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colHours, 7, ts.Total.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colNote, 7, "", "1", 1, "L", false, 0, "")
	pdf.Ln(6)

	// ── Signature ────────────────────────────────────────────────────────────
	pdf.SetFont(family, "", 10)
	switch {
	case ts.Signature == nil:
		pdf.CellFormat(contentW, 6, "Not signed.", "", 1, "L", false, 0, "")
	case ts.Signature.Type == "partial":
		days := make([]string, len(ts.Signature.Days))
		for i, d := range ts.Signature.Days {
			days[i] = fmt.Sprint(d)
		}
		pdf.MultiCell(contentW, 6, fmt.Sprintf("Partially signed on %s for days %s.",
			ts.Signature.SignedAt.Format("2006-01-02"), strings.Join(days, ", ")), "", "L", false)
	default:
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Signed on %s.", ts.Signature.SignedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render timesheet: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
