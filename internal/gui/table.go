package gui

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"dicom-info/internal/patient"
)

// tableModel is the state behind the patient table: every pushed row in
// arrival order, plus the filtered and sorted view of them. It has no
// toolkit dependencies and is only used from the UI goroutine.
type tableModel struct {
	rows []patient.Summary
	view []int

	filter  string
	sortCol patient.Column
	sorted  bool
	sortAsc bool
}

func newTableModel() *tableModel {
	return &tableModel{}
}

func (m *tableModel) push(s patient.Summary) {
	m.rows = append(m.rows, s)
	m.rebuild()
}

func (m *tableModel) clear() {
	m.rows = nil
	m.view = nil
}

// setFilter keeps rows whose name contains q, case-insensitively.
func (m *tableModel) setFilter(q string) {
	m.filter = strings.ToLower(strings.TrimSpace(q))
	m.rebuild()
}

// toggleSort sorts by c, flipping the direction when c is already the sort
// column. It returns true for ascending order.
func (m *tableModel) toggleSort(c patient.Column) bool {
	if m.sorted && m.sortCol == c {
		m.sortAsc = !m.sortAsc
	} else {
		m.sortCol, m.sorted, m.sortAsc = c, true, true
	}
	m.rebuild()
	return m.sortAsc
}

// sortState returns the sort column and direction, if any.
func (m *tableModel) sortState() (patient.Column, bool, bool) {
	return m.sortCol, m.sortAsc, m.sorted
}

func (m *tableModel) len() int   { return len(m.view) }
func (m *tableModel) total() int { return len(m.rows) }

// row returns the visible row i, or nil.
func (m *tableModel) row(i int) *patient.Summary {
	if i < 0 || i >= len(m.view) {
		return nil
	}
	return &m.rows[m.view[i]]
}

func (m *tableModel) cell(i int, c patient.Column) string {
	if r := m.row(i); r != nil {
		return r.Value(c)
	}
	return ""
}

// rename changes the display name of visible row i. The patient key is kept.
func (m *tableModel) rename(i int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name cannot be empty")
	}
	r := m.row(i)
	if r == nil {
		return errors.New("no patient selected")
	}
	r.Name = name
	m.rebuild()
	return nil
}

// visible returns a copy of the visible rows in display order.
func (m *tableModel) visible() []patient.Summary {
	out := make([]patient.Summary, len(m.view))
	for i, idx := range m.view {
		out[i] = m.rows[idx]
	}
	return out
}

func (m *tableModel) rebuild() {
	m.view = m.view[:0]
	for i := range m.rows {
		if m.filter == "" || strings.Contains(strings.ToLower(m.rows[i].Name), m.filter) {
			m.view = append(m.view, i)
		}
	}
	if !m.sorted {
		return
	}

	sort.SliceStable(m.view, func(a, b int) bool {
		ra, rb := &m.rows[m.view[a]], &m.rows[m.view[b]]
		c := compare(ra, rb, m.sortCol)
		if m.sortAsc {
			return c < 0
		}
		return c > 0
	})
}

// compare orders two rows by column c. N/A values sort after everything else
// in ascending order.
func compare(a, b *patient.Summary, c patient.Column) int {
	va, vb := a.Value(c), b.Value(c)
	if va == patient.NA || vb == patient.NA {
		switch {
		case va == vb:
			return 0
		case va == patient.NA:
			return 1
		default:
			return -1
		}
	}

	switch c {
	case patient.ColSlices:
		return cmpInt(int64(a.SliceCount), int64(b.SliceCount))
	case patient.ColFolderSize:
		return cmpInt(a.FolderBytes, b.FolderBytes)
	case patient.ColAge:
		ia, erra := strconv.Atoi(va)
		ib, errb := strconv.Atoi(vb)
		if erra == nil && errb == nil {
			return cmpInt(int64(ia), int64(ib))
		}
	case patient.ColThickness:
		fa, erra := strconv.ParseFloat(strings.TrimSuffix(va, " mm"), 64)
		fb, errb := strconv.ParseFloat(strings.TrimSuffix(vb, " mm"), 64)
		if erra == nil && errb == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	case patient.ColBirthDate, patient.ColStudyDate:
		va, vb = sortableDate(va), sortableDate(vb)
	}
	return strings.Compare(strings.ToLower(va), strings.ToLower(vb))
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortableDate turns DD/MM/YYYY into YYYYMMDD.
func sortableDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + parts[1] + parts[0]
}
