package dicom

import (
	"path/filepath"
	"testing"

	"dicom-info/internal/dicom/dicomtest"
)

func TestReadSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.dcm")
	s := dicomtest.Patient("OBrien^John", "12345")
	s.SliceThickness = "1.250000"
	s.Instance = 7
	dicomtest.Write(t, path, s)

	rec, err := ReadSlice(path)
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"FamilyName", rec.FamilyName, "OBrien"},
		{"GivenName", rec.GivenName, "John"},
		{"PatientID", rec.PatientID, "12345"},
		{"BirthDate", rec.BirthDate, "19800115"},
		{"Sex", rec.Sex, "M"},
		{"StudyDate", rec.StudyDate, "20230115"},
		{"StudyDescription", rec.StudyDescription, "BRAIN"},
		{"Manufacturer", rec.Manufacturer, "SIEMENS"},
		{"ModelName", rec.ModelName, "Skyra"},
		{"Modality", rec.Modality, "MR"},
		{"SliceThickness", rec.SliceThickness, "1.250000"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}

	if rec.InstanceNumber != 7 {
		t.Errorf("InstanceNumber = %d, want 7", rec.InstanceNumber)
	}
	if rec.Size <= 0 {
		t.Errorf("Size = %d, want > 0", rec.Size)
	}
	if rec.Path != path {
		t.Errorf("Path = %q, want %q", rec.Path, path)
	}
}

func TestReadSliceMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.dcm")
	dicomtest.Write(t, path, dicomtest.Slice{PatientName: "Doe", PatientID: "1"})

	rec, err := ReadSlice(path)
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	if rec.FamilyName != "Doe" || rec.GivenName != "" {
		t.Errorf("name = (%q, %q), want (Doe, \"\")", rec.FamilyName, rec.GivenName)
	}
	if rec.Sex != "" || rec.SliceThickness != "" || rec.Manufacturer != "" {
		t.Errorf("expected empty optional fields, got %+v", rec)
	}
}

func TestReadSliceRejectsNonDicom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dcm")
	dicomtest.WriteInvalid(t, path)

	if _, err := ReadSlice(path); err == nil {
		t.Fatal("expected error for non-DICOM file")
	}
}

func TestReadSlicePixels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.dcm")
	s := dicomtest.Patient("Doe^Jane", "2")
	s.Instance = 3
	s.Rows, s.Cols = 3, 4
	s.Pixel = func(x, y int) int { return x + 10*y }
	dicomtest.Write(t, path, s)

	px, err := ReadSlicePixels(path)
	if err != nil {
		t.Fatalf("ReadSlicePixels failed: %v", err)
	}
	if px.Rows != 3 || px.Cols != 4 {
		t.Fatalf("dimensions = %dx%d, want 3x4", px.Rows, px.Cols)
	}
	if px.Instance != 3 {
		t.Errorf("Instance = %d, want 3", px.Instance)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got, want := px.At(x, y), float64(x+10*y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestReadSlicePixelsAppliesRescale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ct.dcm")
	s := dicomtest.Patient("Doe^Jane", "2")
	s.Rows, s.Cols = 2, 2
	s.Pixel = func(x, y int) int { return 100 }
	s.RescaleSlope = "2"
	s.RescaleIntercept = "-1024"
	dicomtest.Write(t, path, s)

	px, err := ReadSlicePixels(path)
	if err != nil {
		t.Fatalf("ReadSlicePixels failed: %v", err)
	}
	for i, v := range px.Data {
		if v != -824 {
			t.Errorf("Data[%d] = %v, want -824", i, v)
		}
	}
}

func TestReadSlicePixelsWithoutPixelData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header-only.dcm")
	dicomtest.Write(t, path, dicomtest.Patient("Doe^Jane", "2"))

	if _, err := ReadSlicePixels(path); err == nil {
		t.Fatal("expected error for slice without pixel data")
	}
}
