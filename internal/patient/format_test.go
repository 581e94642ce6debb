package patient

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20230115", "15/01/2023"},
		{"19991231", "31/12/1999"},
		{" 20230115 ", "15/01/2023"},
		{"", NA},
		{"2023", "//2023"},
		{"202301", "/01/2023"},
		{"abcdefgh", "gh/ef/abcd"},
		{"2023011599", "15/01/2023"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	ref := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth string
		want  string
	}{
		{"birthday passed", "19800115", "43"},
		{"birthday today", "19800615", "43"},
		{"birthday tomorrow", "19800616", "42"},
		{"later month", "19801201", "42"},
		{"born this year", "20230101", "0"},
		{"future birth", "20240101", NA},
		{"empty", "", NA},
		{"garbage", "not-a-date", NA},
		{"impossible calendar date", "19801345", NA},
		{"iso layout", "1980-01-15", "43"},
		{"ten digits", "1234567890", NA},
		{"year only", "1980", NA},
		{"seven digits", "1980011", NA},
		{"ambiguous day and month", "05/12/1980", NA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.birth, ref); got != tt.want {
				t.Errorf("Age(%q) = %q, want %q", tt.birth, got, tt.want)
			}
		})
	}
}

func TestFormatThickness(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.25", "1.25 mm"},
		{"5", "5.00 mm"},
		{" 0.6000000 ", "0.60 mm"},
		{"", NA},
		{"thick", NA},
		{"NaN", NA},
	}

	for _, tt := range tests {
		if got := FormatThickness(tt.in); got != tt.want {
			t.Errorf("FormatThickness(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes     int64
		precision int
		want      string
	}{
		{1048576 + 2097152, 2, "3.00 MB"},
		{1048576 + 2097152, 0, "3 MB"},
		{0, 2, "0.00 MB"},
		{524288, 2, "0.50 MB"},
		{1572864, 0, "2 MB"},
		{1258291, 0, "1 MB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes, tt.precision); got != tt.want {
			t.Errorf("FormatSize(%d, %d) = %q, want %q", tt.bytes, tt.precision, got, tt.want)
		}
	}
}

func TestSummaryRow(t *testing.T) {
	s := &Summary{
		Name:           "John OBrien",
		BirthDate:      "15/01/1980",
		Sex:            "M",
		Age:            "43",
		SliceCount:     12,
		SliceThickness: "1.25 mm",
	}

	row := s.Row([]Column{ColName, ColSlices, ColThickness})
	want := []string{"John OBrien", "12", "1.25 mm"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}

	titles := Titles(ReportColumns)
	if len(titles) != 10 {
		t.Fatalf("report has %d columns, want 10", len(titles))
	}
	if titles[0] != "Name" || titles[9] != "Slice Thickness" {
		t.Errorf("unexpected report titles: %v", titles)
	}
}
