package gui

import (
	"testing"

	"dicom-info/internal/patient"
)

func names(m *tableModel) []string {
	out := make([]string, m.len())
	for i := range out {
		out[i] = m.row(i).Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleModel() *tableModel {
	m := newTableModel()
	m.push(patient.Summary{Key: "a", Name: "Carol King", Age: "51", SliceCount: 40, BirthDate: "02/03/1973", SliceThickness: "1.00 mm", FolderBytes: 300})
	m.push(patient.Summary{Key: "b", Name: "alice Smith", Age: "N/A", SliceCount: 120, BirthDate: "15/01/1980", SliceThickness: "N/A", FolderBytes: 100})
	m.push(patient.Summary{Key: "c", Name: "Bob Stone", Age: "9", SliceCount: 5, BirthDate: "15/01/2015", SliceThickness: "0.60 mm", FolderBytes: 200})
	return m
}

func TestTableModelKeepsArrivalOrder(t *testing.T) {
	m := sampleModel()
	if got := names(m); !equal(got, []string{"Carol King", "alice Smith", "Bob Stone"}) {
		t.Errorf("rows = %v", got)
	}
	if m.total() != 3 {
		t.Errorf("total = %d", m.total())
	}
}

func TestTableModelFilter(t *testing.T) {
	m := sampleModel()

	m.setFilter("  S ")
	if got := names(m); !equal(got, []string{"alice Smith", "Bob Stone"}) {
		t.Errorf("filtered rows = %v", got)
	}

	m.push(patient.Summary{Name: "Dave Miller"})
	m.push(patient.Summary{Name: "Eve Adams"})
	if got := names(m); !equal(got, []string{"alice Smith", "Bob Stone", "Eve Adams"}) {
		t.Errorf("rows after push = %v", got)
	}

	m.setFilter("")
	if m.len() != 5 {
		t.Errorf("len = %d, want 5", m.len())
	}
}

func TestTableModelSort(t *testing.T) {
	tests := []struct {
		col  patient.Column
		asc  []string
		desc []string
	}{
		{patient.ColName,
			[]string{"alice Smith", "Bob Stone", "Carol King"},
			[]string{"Carol King", "Bob Stone", "alice Smith"}},
		{patient.ColSlices,
			[]string{"Bob Stone", "Carol King", "alice Smith"},
			[]string{"alice Smith", "Carol King", "Bob Stone"}},
		{patient.ColAge,
			[]string{"Bob Stone", "Carol King", "alice Smith"},
			[]string{"alice Smith", "Carol King", "Bob Stone"}},
		{patient.ColBirthDate,
			[]string{"Carol King", "alice Smith", "Bob Stone"},
			[]string{"Bob Stone", "alice Smith", "Carol King"}},
		{patient.ColThickness,
			[]string{"Bob Stone", "Carol King", "alice Smith"},
			[]string{"alice Smith", "Carol King", "Bob Stone"}},
		{patient.ColFolderSize,
			[]string{"alice Smith", "Bob Stone", "Carol King"},
			[]string{"Carol King", "Bob Stone", "alice Smith"}},
	}

	for _, tt := range tests {
		t.Run(tt.col.String(), func(t *testing.T) {
			m := sampleModel()
			if !m.toggleSort(tt.col) {
				t.Fatal("first toggle should sort ascending")
			}
			if got := names(m); !equal(got, tt.asc) {
				t.Errorf("ascending = %v, want %v", got, tt.asc)
			}
			if m.toggleSort(tt.col) {
				t.Fatal("second toggle should sort descending")
			}
			if got := names(m); !equal(got, tt.desc) {
				t.Errorf("descending = %v, want %v", got, tt.desc)
			}
		})
	}
}

func TestTableModelSortSwitchColumnResetsDirection(t *testing.T) {
	m := sampleModel()
	m.toggleSort(patient.ColName)
	m.toggleSort(patient.ColName)
	if !m.toggleSort(patient.ColSlices) {
		t.Error("new sort column should start ascending")
	}
	if col, asc, ok := m.sortState(); !ok || col != patient.ColSlices || !asc {
		t.Errorf("sortState = %v %v %v", col, asc, ok)
	}
}

func TestTableModelSortedPushInsertsInOrder(t *testing.T) {
	m := sampleModel()
	m.toggleSort(patient.ColSlices)
	m.push(patient.Summary{Name: "Zed", SliceCount: 50})
	if got := names(m); !equal(got, []string{"Bob Stone", "Carol King", "Zed", "alice Smith"}) {
		t.Errorf("rows = %v", got)
	}
}

func TestTableModelRename(t *testing.T) {
	m := sampleModel()
	m.setFilter("bob")

	if err := m.rename(0, "  Robert Stone "); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	m.setFilter("")
	r := m.row(2)
	if r.Name != "Robert Stone" || r.Key != "c" {
		t.Errorf("row = %q (%s), want renamed display name and unchanged key", r.Name, r.Key)
	}

	if err := m.rename(0, "   "); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := m.rename(10, "X"); err == nil {
		t.Error("out of range row should be rejected")
	}
}

func TestTableModelClearAndVisible(t *testing.T) {
	m := sampleModel()
	m.setFilter("o")
	vis := m.visible()
	if len(vis) != 2 || vis[0].Name != "Carol King" {
		t.Errorf("visible = %v", vis)
	}

	m.clear()
	if m.len() != 0 || m.total() != 0 {
		t.Error("clear should drop every row")
	}
	if m.row(0) != nil || m.cell(0, patient.ColName) != "" {
		t.Error("empty model should have no rows")
	}
}
