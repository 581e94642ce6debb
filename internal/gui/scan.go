package gui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"dicom-info/internal/patient"
	"dicom-info/internal/scanner"
)

// guiSink marshals scan events onto the UI goroutine.
type guiSink struct {
	a        *App
	folders  int
	patients int
	skipped  int
}

func (s *guiSink) Push(summary patient.Summary) {
	fyne.Do(func() {
		s.patients++
		s.a.model.push(summary)
		s.a.refreshTable()
		s.progress()
	})
}

func (s *guiSink) Complete(total int) {
	fyne.Do(func() {
		s.a.counts.SetText(fmt.Sprintf("%d new patient(s), %d total", total, s.a.model.total()))
	})
}

func (s *guiSink) Clear() {
	fyne.Do(func() {
		s.a.model.clear()
		s.a.refreshTable()
	})
}

func (s *guiSink) FolderStarted(folder string) {
	fyne.Do(func() {
		s.folders++
		s.progress()
	})
}

func (s *guiSink) FileSkipped(string, error) {
	fyne.Do(func() {
		s.skipped++
		s.progress()
	})
}

// progress must run on the UI goroutine.
func (s *guiSink) progress() {
	s.a.status.SetText(fmt.Sprintf("Scanning: %d folder(s), %d patient(s), %d skipped",
		s.folders, s.patients, s.skipped))
}

func (a *App) chooseFolder() {
	if a.IsScanning() {
		return
	}
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		a.startScan(uri.Path())
	}, a.mainWindow)
}

// startScan runs a scan of root in the background, filling the table as
// folders complete.
func (a *App) startScan(root string) {
	a.scanMu.Lock()
	if a.scan != nil {
		a.scanMu.Unlock()
		return
	}

	s := scanner.New(scanner.OptionsFromConfig(a.cfg),
		scanner.WithRegistry(a.registry),
		scanner.WithSkipLog(a.skips),
		scanner.WithLogger(a.log),
	)
	sc, err := s.Start(context.Background(), root)
	if err != nil {
		a.scanMu.Unlock()
		switch {
		case errors.Is(err, scanner.ErrAlreadyAnalyzed):
			dialog.ShowInformation("Already Analyzed",
				fmt.Sprintf("%s was already analyzed.\n\nClear the table to scan it again.", root), a.mainWindow)
		default:
			dialog.ShowError(err, a.mainWindow)
		}
		return
	}
	a.scan = sc
	a.scanMu.Unlock()

	a.chooseBtn.Disable()
	a.clearBtn.Disable()
	a.cancelBtn.Enable()
	a.status.SetText("Scanning " + sc.Root)

	go func() {
		sink := &guiSink{a: a}
		res := scanner.Drain(sc.Events(), sink)
		fyne.Do(func() { a.finishScan(res) })
	}()
}

func (a *App) finishScan(res scanner.Result) {
	a.scanMu.Lock()
	a.scan = nil
	a.scanMu.Unlock()

	a.chooseBtn.Enable()
	a.clearBtn.Enable()
	a.cancelBtn.Disable()

	msg := fmt.Sprintf("%d patient(s) from %d folder(s). %s", res.Patients, res.Folders, a.skips.Summary())
	if res.Cancelled() {
		msg = "Cancelled: " + msg
	} else {
		msg = "Complete: " + msg
	}
	a.status.SetText(msg)
}

// IsScanning returns whether a scan is in progress
func (a *App) IsScanning() bool {
	a.scanMu.Lock()
	defer a.scanMu.Unlock()
	return a.scan != nil
}

func (a *App) confirmCancel() {
	if !a.IsScanning() {
		return
	}
	dialog.ShowConfirm("Cancel Scan",
		"Stop scanning? Patients from finished folders stay in the table.",
		func(confirm bool) {
			if confirm {
				a.cancelScan()
			}
		}, a.mainWindow)
}

func (a *App) cancelScan() {
	a.scanMu.Lock()
	sc := a.scan
	a.scanMu.Unlock()

	if sc != nil && sc.Cancel() {
		a.cancelBtn.Disable()
		a.status.SetText("Cancelling...")
	}
}

// clearTable drops every row and forgets the analyzed folders.
func (a *App) clearTable() {
	if a.IsScanning() {
		dialog.ShowInformation("Scan Running", "Wait for the scan to finish or cancel it first.", a.mainWindow)
		return
	}
	a.model.clear()
	n := a.registry.Clear()
	a.skips.Reset()
	a.selected = -1
	a.table.UnselectAll()
	a.refreshTable()
	a.status.SetText(fmt.Sprintf("Cleared %d analyzed folder(s)", n))
}
