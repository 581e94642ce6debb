package identity

import "strings"

// PlaceholderNames are values that indicate missing/test data
var PlaceholderNames = map[string]bool{
	"":           true,
	"unknown":    true,
	"no name":    true,
	"noname":     true,
	"anonymous":  true,
	"anonymized": true,
	"test":       true,
	"patient":    true,
}

// PlaceholderDOBs are values that indicate missing/test DOB data
var PlaceholderDOBs = map[string]bool{
	"":         true,
	"00000000": true,
	"11111111": true,
	"19000101": true,
	"99999999": true,
}

// IsPlaceholder reports whether a cleaned name and raw birth date look like
// test or anonymized data rather than a real identity.
func IsPlaceholder(cleanName, birthDate string) bool {
	name := strings.ToLower(strings.Join(strings.Fields(cleanName), " "))
	dob := strings.TrimSpace(birthDate)

	if PlaceholderNames[name] || len([]rune(name)) < 2 {
		return true
	}
	return PlaceholderDOBs[dob]
}
