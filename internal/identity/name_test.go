package identity

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		name   string
		given  string
		family string
		want   string
	}{
		{"digits and punctuation", " John123 ", "O'Brien!!", "John OBrien"},
		{"both empty", "", "", ""},
		{"given only", "Ana", "", "Ana"},
		{"family only", "", "Souza", "Souza"},
		{"inner spaces kept", "Mary Ann", "Smith-Jones", "Mary Ann SmithJones"},
		{"accented letters", "José", "Conceição", "José Conceição"},
		{"only symbols", "123", "!!", ""},
		{"tabs trimmed", "\tLee\t", " Kim ", "Lee Kim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.given, tt.family); got != tt.want {
				t.Errorf("CleanName(%q, %q) = %q, want %q", tt.given, tt.family, got, tt.want)
			}
		})
	}
}

func TestCleanNameNormalizesDecomposedAccents(t *testing.T) {
	// "e" followed by a combining acute accent
	decomposed := "Jose\u0301"
	if got := CleanName(decomposed, ""); got != "José" {
		t.Errorf("CleanName(decomposed) = %q, want %q", got, "José")
	}
}

func TestSplitPersonName(t *testing.T) {
	tests := []struct {
		pn         string
		wantFamily string
		wantGiven  string
	}{
		{"Doe^John", "Doe", "John"},
		{"Doe^John^A^Dr^Jr", "Doe", "John"},
		{"Doe", "Doe", ""},
		{"", "", ""},
		{"Yamada^Tarou=山田^太郎", "Yamada", "Tarou"},
	}

	for _, tt := range tests {
		family, given := SplitPersonName(tt.pn)
		if family != tt.wantFamily || given != tt.wantGiven {
			t.Errorf("SplitPersonName(%q) = (%q, %q), want (%q, %q)",
				tt.pn, family, given, tt.wantFamily, tt.wantGiven)
		}
	}
}

func TestPatientKey(t *testing.T) {
	if got := PatientKey("John OBrien", "12345"); got != "John OBrien_12345" {
		t.Errorf("PatientKey = %q", got)
	}
	if got := PatientKey("", ""); got != "_" {
		t.Errorf("PatientKey of empty parts = %q, want %q", got, "_")
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		want bool
	}{
		{"John Smith", "19800115", false},
		{"Anonymous", "19800115", true},
		{"", "19800115", true},
		{"John Smith", "19000101", true},
		{"John Smith", "", true},
		{"X", "19800115", true},
	}

	for _, tt := range tests {
		if got := IsPlaceholder(tt.name, tt.dob); got != tt.want {
			t.Errorf("IsPlaceholder(%q, %q) = %v, want %v", tt.name, tt.dob, got, tt.want)
		}
	}
}
