// Package report exports patient summaries as a printable PDF table.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"dicom-info/internal/patient"
)

// DefaultTitle is used when no title is given.
const DefaultTitle = "DICOM Patient Report"

const (
	margin     = 10.0
	rowHeight  = 7.0
	fontFamily = "Helvetica"
)

// relative column widths, scaled to the printable width
var weights = map[patient.Column]float64{
	patient.ColName:             4.5,
	patient.ColBirthDate:        2.2,
	patient.ColSex:              1.2,
	patient.ColAge:              1.2,
	patient.ColStudyDate:        2.2,
	patient.ColStudyDescription: 5,
	patient.ColManufacturer:     3.2,
	patient.ColEquipment:        3.2,
	patient.ColSlices:           1.6,
	patient.ColThickness:        2.4,
}

// Export writes summaries to a landscape A4 PDF at path.
func Export(path, title string, summaries []patient.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report: %w", err)
	}

	if err := Write(f, title, summaries, time.Now()); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

// Write renders the report to w. generated is printed under the title.
func Write(w io.Writer, title string, summaries []patient.Summary, generated time.Time) error {
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	cols := patient.ReportColumns
	widths := columnWidths(pdf, cols)
	stamp := "Generated " + generated.Format("02/01/2006 15:04")
	count := fmt.Sprintf("%d patient(s)", len(summaries))

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(0, 5, tr(stamp+"  -  "+count), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(220, 228, 240)
		for i, t := range patient.Titles(cols) {
			pdf.CellFormat(widths[i], rowHeight, tr(t), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetFillColor(245, 245, 245)
	for i := range summaries {
		fill := i%2 == 1
		for j, v := range summaries[i].Row(cols) {
			align := "L"
			if cols[j] == patient.ColSlices || cols[j] == patient.ColAge {
				align = "R"
			}
			text := fit(pdf, tr, v, widths[j]-2)
			pdf.CellFormat(widths[j], rowHeight, text, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(summaries) == 0 {
		pdf.SetFont(fontFamily, "I", 9)
		pdf.CellFormat(0, rowHeight, "No patients", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	return nil
}

func columnWidths(pdf *fpdf.Fpdf, cols []patient.Column) []float64 {
	pageW, _ := pdf.GetPageSize()
	printable := pageW - 2*margin

	var total float64
	for _, c := range cols {
		total += weights[c]
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = printable * weights[c] / total
	}
	return widths
}

// fit shortens s with a trailing ellipsis until it fits in width and
// returns the translated text.
func fit(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if pdf.GetStringWidth(tr(s)) <= width {
		return tr(s)
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
