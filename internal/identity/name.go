package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SplitPersonName splits a DICOM PN value ("Family^Given^Middle^Prefix^Suffix")
// into family and given components. Only the alphabetic representation
// (before any "=") is considered.
func SplitPersonName(pn string) (family, given string) {
	if i := strings.IndexByte(pn, '='); i >= 0 {
		pn = pn[:i]
	}
	parts := strings.Split(pn, "^")
	family = parts[0]
	if len(parts) > 1 {
		given = parts[1]
	}
	return family, given
}

// CleanName builds the display name for a patient from the given and family
// name components. Everything that is not a letter or whitespace is removed,
// each part is trimmed and the non-empty parts are joined with one space.
func CleanName(given, family string) string {
	var parts []string
	for _, p := range []string{given, family} {
		if p = cleanPart(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func cleanPart(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// PatientKey is the grouping key for slices: "<clean name>_<patient id>".
func PatientKey(cleanName, patientID string) string {
	return cleanName + "_" + patientID
}
