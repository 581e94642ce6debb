package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"dicom-info/internal/patient"
	"dicom-info/internal/scanner"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelCollectsRows(t *testing.T) {
	m := NewModel("/data", nil)

	m.Update(FolderMsg{Folder: "/data/a"})
	m.Update(SummaryMsg{Summary: patient.Summary{Name: "John Doe", SliceCount: 3}})
	m.Update(SkippedMsg{Path: "/data/a/x.dcm", Err: errors.New("bad")})
	m.Update(FolderMsg{Folder: "/data/b"})

	if len(m.Summaries()) != 1 {
		t.Fatalf("got %d rows, want 1", len(m.Summaries()))
	}
	view := m.View()
	for _, want := range []string{"2 folder(s), 1 patient(s), 1 skipped", "John Doe", "/data/b", "Ctrl+C"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
}

func TestModelCtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := NewModel("/data", func() bool {
		calls++
		return true
	})

	if _, cmd := m.Update(key("ctrl+c")); cmd != nil {
		t.Error("ctrl+c while scanning should not quit")
	}
	m.Update(key("ctrl+c"))
	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
	if !strings.Contains(m.View(), "Cancelling") {
		t.Error("view should show the pending cancellation")
	}

	m.Update(CompletionMsg{Result: scanner.Result{Err: scanner.ErrCancelled}})
	if !strings.Contains(m.View(), "cancelled") {
		t.Error("view should report the cancelled scan")
	}
	if _, cmd := m.Update(key("ctrl+c")); cmd == nil {
		t.Error("ctrl+c after completion should quit")
	}
}

func TestModelQuitOnlyWhenDone(t *testing.T) {
	m := NewModel("/data", nil)

	if _, cmd := m.Update(key("q")); cmd != nil {
		t.Error("q while scanning should be ignored")
	}

	m.Update(CompletionMsg{Result: scanner.Result{Patients: 0}})
	if !m.Done() {
		t.Fatal("model should be done")
	}
	if !strings.Contains(m.View(), "Scan complete: 0 patient(s)") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
	if _, cmd := m.Update(key("enter")); cmd == nil {
		t.Error("enter after completion should quit")
	}
}

func TestModelScrolls(t *testing.T) {
	m := NewModel("/data", nil)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 13})
	for _, name := range []string{"Ann", "Bob", "Cid", "Dan", "Eve"} {
		m.Update(SummaryMsg{Summary: patient.Summary{Name: name}})
	}
	m.Update(CompletionMsg{})

	if !strings.Contains(m.View(), "Ann") {
		t.Error("first row should be visible before scrolling")
	}
	m.Update(key("down"))
	m.Update(key("down"))
	view := m.View()
	if strings.Contains(view, "Ann") || !strings.Contains(view, "Cid") {
		t.Errorf("unexpected rows after scrolling:\n%s", view)
	}
	m.Update(key("up"))
	if !strings.Contains(m.View(), "Bob") {
		t.Error("scrolling up should show Bob again")
	}
}

func TestValidateRoot(t *testing.T) {
	if err := validateRoot(""); err == nil {
		t.Error("empty folder should be rejected")
	}
	if err := validateRoot("/definitely/not/here"); err == nil {
		t.Error("missing folder should be rejected")
	}
	if err := validateRoot(t.TempDir()); err != nil {
		t.Errorf("existing folder rejected: %v", err)
	}
}
