package gui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"dicom-info/internal/report"
)

// openerCommand returns the command that shows path in the OS file browser.
func openerCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("explorer", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

func (a *App) openPath(path string) {
	if err := openerCommand(runtime.GOOS, path).Start(); err != nil {
		a.log.WithError(err).WithField("path", path).Warn("could not open path")
		dialog.ShowError(fmt.Errorf("could not open %s: %w", path, err), a.mainWindow)
	}
}

func (a *App) openSelectedFolder() {
	if row := a.selectedRow(); row != nil {
		a.openPath(row.Folder)
	}
}

func (a *App) renameSelected() {
	row := a.selectedRow()
	if row == nil {
		return
	}
	index := a.selected

	entry := widget.NewEntry()
	entry.SetText(row.Name)
	items := []*widget.FormItem{
		widget.NewFormItem("Name", entry),
	}

	d := dialog.NewForm("Rename Patient", "Save", "Cancel", items, func(confirm bool) {
		if !confirm {
			return
		}
		if err := a.model.rename(index, entry.Text); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		a.selected = -1
		a.table.UnselectAll()
		a.refreshTable()
	}, a.mainWindow)
	d.Resize(fyne.NewSize(400, 160))
	d.Show()
}

// exportPDF writes the visible rows to a PDF and opens it.
func (a *App) exportPDF() {
	if a.model.len() == 0 {
		dialog.ShowInformation("Nothing to Export", "The table is empty.", a.mainWindow)
		return
	}
	rows := a.model.visible()

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			// the dialog already created the file without the extension
			os.Remove(path)
			path += ".pdf"
		}

		if err := report.Export(path, a.cfg.ReportTitle, rows); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		a.log.WithField("path", path).WithField("patients", len(rows)).Info("report exported")
		a.status.SetText("Report written to " + path)
		a.openPath(path)
	}, a.mainWindow)
}
