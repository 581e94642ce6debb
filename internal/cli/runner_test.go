package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	"dicom-info/internal/config"
	"dicom-info/internal/dicom/dicomtest"
	"dicom-info/internal/patient"
	"dicom-info/internal/scanner"
)

var quiet = &log.Logger{Handler: discard.New(), Level: log.ErrorLevel}

func writeStudy(t *testing.T, root string) {
	t.Helper()
	for i := 1; i <= 3; i++ {
		s := dicomtest.Patient("Doe^John", "100")
		s.Instance = i
		dicomtest.Write(t, filepath.Join(root, "study", "slice"+string(rune('0'+i))+".dcm"), s)
	}
	dicomtest.WriteInvalid(t, filepath.Join(root, "study", "broken.dcm"))
}

func TestRunPrintsTable(t *testing.T) {
	root := t.TempDir()
	writeStudy(t, root)

	var out bytes.Buffer
	err := Run(context.Background(), Options{Root: root, Out: &out, Logger: quiet})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"DICOM Info",
		"John Doe",
		"Slice Thickness",
		"1.00 mm",
		"Complete! 1 patient(s)",
		"1 file(s) skipped",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestRunWritesReport(t *testing.T) {
	root := t.TempDir()
	writeStudy(t, root)
	reportPath := filepath.Join(t.TempDir(), "patients.pdf")

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Root:       root,
		ReportPath: reportPath,
		ReportOnly: true,
		Out:        &out,
		Logger:     quiet,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}
	if strings.Contains(out.String(), "Slice Thickness") {
		t.Error("report-only run should not print the table")
	}
}

func TestRunMissingFolder(t *testing.T) {
	err := Run(context.Background(), Options{
		Root:   filepath.Join(t.TempDir(), "nope"),
		Out:    &bytes.Buffer{},
		Logger: quiet,
	})
	if !errors.Is(err, scanner.ErrMissingDirectory) {
		t.Fatalf("err = %v, want ErrMissingDirectory", err)
	}
}

func TestRunRequiresInputs(t *testing.T) {
	if err := Run(context.Background(), Options{Out: &bytes.Buffer{}}); err == nil {
		t.Error("expected error without a root")
	}
	err := Run(context.Background(), Options{Root: t.TempDir(), ReportOnly: true, Out: &bytes.Buffer{}})
	if err == nil {
		t.Error("expected error for report-only without a report path")
	}
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	writeStudy(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cfg := config.Default()
	if err := Run(ctx, Options{Root: root, Config: cfg, Out: &out, Logger: quiet}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled after") {
		t.Errorf("output does not mention cancellation:\n%s", out.String())
	}
}

func TestRenderTable(t *testing.T) {
	summaries := []patient.Summary{
		{Name: "John Doe", SliceCount: 12, SliceThickness: "1.00 mm"},
		{Name: "Jane Roe", SliceCount: 3, SliceThickness: "N/A"},
	}
	got := renderTable(summaries, []patient.Column{patient.ColName, patient.ColSlices, patient.ColThickness})

	for _, want := range []string{"Name", "Slices", "John Doe", "12", "Jane Roe", "N/A"} {
		if !strings.Contains(got, want) {
			t.Errorf("table does not contain %q:\n%s", want, got)
		}
	}
	if lines := strings.Count(got, "\n") + 1; lines < 5 {
		t.Errorf("table has %d lines, want header, separator and rows", lines)
	}
}
