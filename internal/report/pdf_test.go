package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"

	"dicom-info/internal/patient"
)

func sampleSummaries(n int) []patient.Summary {
	out := make([]patient.Summary, n)
	for i := range out {
		out[i] = patient.Summary{
			Name:             "José Müller",
			BirthDate:        "15/01/1980",
			Sex:              "M",
			Age:              "43",
			StudyDate:        "15/01/2023",
			StudyDescription: "BRAIN WITH AND WITHOUT CONTRAST, A VERY LONG PROTOCOL NAME",
			Manufacturer:     "SIEMENS",
			Equipment:        "Skyra",
			SliceCount:       i + 1,
			SliceThickness:   "1.00 mm",
		}
	}
	return out
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	if err := Write(&buf, "", sampleSummaries(3), generated); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
}

func TestWriteBreaksPages(t *testing.T) {
	var small, large bytes.Buffer
	generated := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	if err := Write(&small, "Report", sampleSummaries(1), generated); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Write(&large, "Report", sampleSummaries(120), generated); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if got := strings.Count(small.String(), "/Type /Page\n"); got != 1 {
		t.Errorf("small report has %d pages, want 1", got)
	}
	if got := strings.Count(large.String(), "/Type /Page\n"); got < 4 {
		t.Errorf("large report has %d pages, want several", got)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "Empty", nil, time.Now()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty report produced no output")
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := Export(path, "Patients", sampleSummaries(2)); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("exported file is not a PDF")
	}
}

func TestExportBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.pdf")
	if err := Export(path, "Patients", nil); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestFitAddsEllipsis(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetFont(fontFamily, "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if got := fit(pdf, tr, "short", 50); got != "short" {
		t.Errorf("fit(short) = %q", got)
	}
	got := fit(pdf, tr, strings.Repeat("W", 100), 20)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("fit did not truncate: %q", got)
	}
	if w := pdf.GetStringWidth(got); w > 20 {
		t.Errorf("truncated width %.1f exceeds 20", w)
	}
}
