package patient

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NA marks a value that is missing from the header or cannot be computed.
const NA = "N/A"

const bytesPerMB = 1048576

// FormatDate converts a DICOM DA value (YYYYMMDD) to DD/MM/YYYY by slicing.
// No calendar validation is done; short input yields a partial string.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NA
	}
	return substr(s, 6, 8) + "/" + substr(s, 4, 6) + "/" + substr(s, 0, 4)
}

// substr slices like s[from:to] but clamps out-of-range bounds.
func substr(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// ParseDate parses a DICOM date. Digit-only values must be YYYYMMDD; other
// layouts written by non-conforming devices go through dateparse in strict
// mode, so ambiguous day/month order is rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if isDigits(s) {
		t, err := time.Parse("20060102", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", s)
		}
		return t, nil
	}
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Age returns the age in whole years at the reference date, or NA when the
// birth date cannot be parsed or lies after the reference.
func Age(birthDate string, reference time.Time) string {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return NA
	}

	age := reference.Year() - birth.Year()
	if reference.Month() < birth.Month() ||
		(reference.Month() == birth.Month() && reference.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return NA
	}
	return strconv.Itoa(age)
}

// FormatThickness formats a SliceThickness value as "%.2f mm".
func FormatThickness(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return fmt.Sprintf("%.2f mm", v)
}

// FormatSize converts a byte count to megabytes. precision 0 rounds to an
// integer, anything else uses two decimals.
func FormatSize(bytes int64, precision int) string {
	mb := float64(bytes) / bytesPerMB
	if precision == 0 {
		return fmt.Sprintf("%d MB", int64(math.Round(mb)))
	}
	return fmt.Sprintf("%.2f MB", mb)
}

// OrNA returns s trimmed, or NA when it is empty.
func OrNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return NA
	}
	return s
}
