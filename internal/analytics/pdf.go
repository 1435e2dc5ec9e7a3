package analytics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 15.0
	pdfPageWidth  = 210.0
	pdfChartH     = 40.0
	pdfHistoryMax = 50
)

// WritePDF renders the report as an A4 document.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetTitle("tuifit progress report", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Progress Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, r.GeneratedAt.Format("Monday, Jan 2, 2006 15:04"))
	pdf.Ln(10)

	writePDFSummary(pdf, tr, r.Summary)
	if r.Summary.Total > 0 {
		writePDFChart(pdf, r)
		writePDFRoutines(pdf, tr, r)
		writePDFHistory(pdf, tr, r)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// WritePDFFile writes the report to path, creating parent directories.
func WritePDFFile(path string, r Report) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()
	return WritePDF(f, r)
}

func writePDFSummary(pdf *fpdf.Fpdf, tr func(string) string, s Summary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if s.Total == 0 {
		pdf.Cell(0, 7, "No workouts yet.")
		pdf.Ln(7)
		return
	}
	rows := [][2]string{
		{"Total workouts", fmt.Sprint(s.Total)},
		{"This week", fmt.Sprint(s.ThisWeek)},
		{"Total time", fmt.Sprintf("%d min", s.TotalMinutes)},
		{"Current streak", pluralDays(s.CurrentStreak)},
		{"Longest streak", pluralDays(s.LongestStreak)},
	}
	if s.HasTop {
		rows = append(rows, [2]string{"Top routine", fmt.Sprintf("%s (%d)", s.TopRoutine.Name, s.TopRoutine.Count)})
	}
	for _, row := range rows {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writePDFChart(pdf *fpdf.Fpdf, r Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Workouts per day, last %d days", len(r.Days)))
	pdf.Ln(10)

	top := 1
	for _, d := range r.Days {
		top = max(top, d.Count)
	}
	width := pdfPageWidth - 2*pdfMargin
	bar := width / float64(len(r.Days))
	x0, y0 := pdfMargin, pdf.GetY()
	base := y0 + pdfChartH

	pdf.SetDrawColor(160, 160, 160)
	pdf.Line(x0, base, x0+width, base)
	pdf.SetFillColor(46, 160, 90)
	for i, d := range r.Days {
		if d.Count == 0 {
			continue
		}
		h := pdfChartH * float64(d.Count) / float64(top)
		pdf.Rect(x0+float64(i)*bar+bar*0.15, base-h, bar*0.7, h, "F")
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(x0, base+4, r.Days[0].Day.Format("Jan 2"))
	last := r.Days[len(r.Days)-1].Day.Format("Jan 2")
	pdf.Text(x0+width-pdf.GetStringWidth(last), base+4, last)
	pdf.Text(x0, y0-1, fmt.Sprintf("max %d", top))
	pdf.SetY(base + 10)
}

func writePDFRoutines(pdf *fpdf.Fpdf, tr func(string) string, r Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Routines")
	pdf.Ln(9)
	widths := []float64{90, 25, 30, 35}
	writePDFRow(pdf, widths, []string{"Routine", "Count", "Time", "Last"}, true)
	for _, rc := range r.Routines {
		writePDFRow(pdf, widths, []string{
			tr(rc.Name),
			fmt.Sprint(rc.Count),
			fmt.Sprintf("%d min", rc.Minutes),
			RelativeDay(rc.Last, r.GeneratedAt),
		}, false)
	}
	pdf.Ln(6)
}

func writePDFHistory(pdf *fpdf.Fpdf, tr func(string) string, r Report) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "History")
	pdf.Ln(9)
	widths := []float64{40, 80, 30, 30}
	writePDFRow(pdf, widths, []string{"Completed", "Routine", "Duration", "Exercises"}, true)
	for i, l := range r.Logs {
		if i == pdfHistoryMax {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.Cell(0, 6, fmt.Sprintf("... and %d more", len(r.Logs)-pdfHistoryMax))
			pdf.Ln(6)
			break
		}
		writePDFRow(pdf, widths, []string{
			l.CompletedAt.In(r.GeneratedAt.Location()).Format("2006-01-02 15:04"),
			tr(l.RoutineName),
			fmt.Sprintf("%d min", l.Duration),
			fmt.Sprint(l.ExercisesCompleted),
		}, false)
	}
}

func writePDFRow(pdf *fpdf.Fpdf, widths []float64, cells []string, header bool) {
	style := ""
	if header {
		style = "B"
		pdf.SetFillColor(230, 230, 230)
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, c := range cells {
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, c, "B", 0, align, header, 0, "")
	}
	pdf.Ln(-1)
}
