package gui

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/apex/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dicom-info/internal/config"
	dcm "dicom-info/internal/dicom"
	"dicom-info/internal/patient"
	"dicom-info/internal/progress"
	"dicom-info/internal/scanner"
)

const (
	AppTitle  = "DICOM Info"
	AppWidth  = 1200
	AppHeight = 700
)

// App represents the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window

	cfg      *config.Config
	log      log.Interface
	registry *progress.Registry
	skips    *progress.SkipLog

	model    *tableModel
	table    *widget.Table
	selected int

	// scan state, guarded by scanMu
	scanMu sync.Mutex
	scan   *scanner.Scan

	chooseBtn *widget.Button
	cancelBtn *widget.Button
	clearBtn  *widget.Button
	status    *widget.Label
	counts    *widget.Label

	// dcmtk status indicator
	dcmtkStatusCircle *canvas.Circle
	dcmtkStatusLabel  *widget.Label
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, logger log.Interface) *App {
	a := app.NewWithID("dicom-info")
	a.SetIcon(theme.StorageIcon())
	a.Settings().SetTheme(&ModernTheme{})

	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		fyneApp:  a,
		cfg:      cfg,
		log:      logger,
		registry: progress.NewRegistry(),
		model:    newTableModel(),
		selected: -1,
	}
}

// Run starts the GUI application
func (a *App) Run() {
	skips, err := progress.NewSkipLog(a.cfg.SkipLogFile)
	if err != nil {
		a.log.WithError(err).Warn("skip log file unavailable, keeping skipped files in memory")
		skips, _ = progress.NewSkipLog("")
	}
	a.skips = skips
	defer a.skips.Close()

	a.mainWindow = a.fyneApp.NewWindow(AppTitle)
	a.mainWindow.Resize(fyne.NewSize(AppWidth, AppHeight))
	a.mainWindow.CenterOnScreen()

	a.mainWindow.SetContent(a.build())
	a.maybePromptDcmtkInstall()

	// Confirm before closing if scanning
	a.mainWindow.SetCloseIntercept(func() {
		if !a.IsScanning() {
			a.mainWindow.Close()
			return
		}
		dialog.ShowConfirm("Confirm Exit",
			"A scan is in progress. Are you sure you want to exit?",
			func(confirm bool) {
				if confirm {
					a.cancelScan()
					a.mainWindow.Close()
				}
			}, a.mainWindow)
	})

	a.mainWindow.ShowAndRun()
}

func (a *App) build() fyne.CanvasObject {
	titleLabel := canvas.NewText("Patients", ColorTextPrimary)
	titleLabel.TextSize = 18
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.chooseBtn = widget.NewButtonWithIcon("Choose Folder", theme.FolderOpenIcon(), a.chooseFolder)
	a.chooseBtn.Importance = widget.HighImportance

	a.cancelBtn = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), a.confirmCancel)
	a.cancelBtn.Disable()

	a.clearBtn = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.clearTable)

	viewBtn := widget.NewButtonWithIcon("View Slices", theme.VisibilityIcon(), a.openViewer)
	folderBtn := widget.NewButtonWithIcon("Open Folder", theme.FolderIcon(), a.openSelectedFolder)
	renameBtn := widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), a.renameSelected)
	exportBtn := widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), a.exportPDF)

	filter := widget.NewEntry()
	filter.SetPlaceHolder("Filter by name")
	filter.OnChanged = func(q string) {
		a.model.setFilter(q)
		a.selected = -1
		a.table.UnselectAll()
		a.refreshTable()
	}

	a.status = widget.NewLabel("Choose a folder to scan")
	a.status.Truncation = fyne.TextTruncateEllipsis
	a.counts = widget.NewLabel("")

	a.table = a.newPatientTable()

	toolbar := container.NewHBox(
		a.chooseBtn, a.cancelBtn, a.clearBtn,
		widget.NewSeparator(),
		viewBtn, folderBtn, renameBtn, exportBtn,
	)
	header := container.NewVBox(
		container.NewBorder(nil, nil, titleLabel, a.createDcmtkStatusIndicator()),
		toolbar,
		filter,
	)
	footer := container.NewBorder(nil, nil, nil, a.counts, a.status)

	return container.NewPadded(container.NewBorder(header, footer, nil, nil, a.table))
}

var columnWidths = map[patient.Column]float32{
	patient.ColName:             180,
	patient.ColPatientID:        110,
	patient.ColBirthDate:        100,
	patient.ColAge:              50,
	patient.ColSex:              45,
	patient.ColStudyDate:        100,
	patient.ColStudyDescription: 200,
	patient.ColManufacturer:     120,
	patient.ColEquipment:        120,
	patient.ColModality:         75,
	patient.ColSlices:           60,
	patient.ColThickness:        110,
	patient.ColFolderSize:       100,
	patient.ColFolder:           300,
}

func (a *App) newPatientTable() *widget.Table {
	cols := patient.Columns

	t := widget.NewTableWithHeaders(
		func() (int, int) { return a.model.len(), len(cols) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(a.model.cell(id.Row, cols[id.Col]))
		},
	)
	t.ShowHeaderColumn = false
	t.CreateHeader = func() fyne.CanvasObject {
		b := widget.NewButton("", nil)
		b.Importance = widget.LowImportance
		return b
	}
	t.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		b := o.(*widget.Button)
		if id.Row != -1 || id.Col < 0 {
			b.SetText("")
			b.OnTapped = nil
			return
		}
		col := cols[id.Col]
		b.SetText(headerTitle(a.model, col))
		b.OnTapped = func() {
			a.model.toggleSort(col)
			a.selected = -1
			a.table.UnselectAll()
			a.refreshTable()
		}
	}
	t.OnSelected = func(id widget.TableCellID) {
		a.selected = id.Row
	}
	t.OnUnselected = func(widget.TableCellID) {
		a.selected = -1
	}

	for i, c := range cols {
		t.SetColumnWidth(i, columnWidths[c])
	}
	return t
}

// headerTitle returns the column title with a sort direction marker.
func headerTitle(m *tableModel, c patient.Column) string {
	col, asc, ok := m.sortState()
	if !ok || col != c {
		return c.String()
	}
	if asc {
		return c.String() + " ▲"
	}
	return c.String() + " ▼"
}

func (a *App) refreshTable() {
	a.table.Refresh()
	if a.model.len() == a.model.total() {
		a.counts.SetText(fmt.Sprintf("%d patient(s)", a.model.total()))
	} else {
		a.counts.SetText(fmt.Sprintf("%d of %d patient(s)", a.model.len(), a.model.total()))
	}
}

// selectedRow returns the selected patient or shows a hint.
func (a *App) selectedRow() *patient.Summary {
	row := a.model.row(a.selected)
	if row == nil {
		dialog.ShowInformation("No Patient Selected", "Select a patient in the table first.", a.mainWindow)
	}
	return row
}

func (a *App) maybePromptDcmtkInstall() {
	if dcm.CheckDcmtkInstalled() {
		return
	}

	// Prompt once; afterwards the status indicator opens the dialog
	prefs := a.fyneApp.Preferences()
	if !prefs.BoolWithFallback("dcmtk_prompted", false) {
		prefs.SetBool("dcmtk_prompted", true)
		a.showDcmtkInstallDialog()
	}
}

// createDcmtkStatusIndicator creates a clickable dcmtk status indicator with a colored circle
func (a *App) createDcmtkStatusIndicator() fyne.CanvasObject {
	a.dcmtkStatusCircle = canvas.NewCircle(ColorStatusRed)
	a.dcmtkStatusCircle.StrokeWidth = 0
	a.dcmtkStatusLabel = widget.NewLabel("dcmtk")
	a.updateDcmtkStatus()

	statusBtn := widget.NewButton("", a.showDcmtkInstallDialog)
	statusBtn.Importance = widget.LowImportance

	statusContent := container.New(&dcmtkStatusLayout{}, a.dcmtkStatusCircle, a.dcmtkStatusLabel)
	return container.NewStack(statusBtn, statusContent)
}

// dcmtkStatusLayout vertically centers a circle with a label
type dcmtkStatusLayout struct{}

func (l *dcmtkStatusLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	labelSize := objects[1].MinSize()
	return fyne.NewSize(10+8+labelSize.Width, labelSize.Height)
}

func (l *dcmtkStatusLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	circle, label := objects[0], objects[1]

	circleSize := float32(10)
	labelSize := label.MinSize()

	circle.Resize(fyne.NewSize(circleSize, circleSize))
	circle.Move(fyne.NewPos(4, (size.Height-circleSize)/2))

	label.Resize(labelSize)
	label.Move(fyne.NewPos(circleSize+12, (size.Height-labelSize.Height)/2))
}

func (a *App) updateDcmtkStatus() {
	if dcm.CheckDcmtkInstalled() {
		a.dcmtkStatusCircle.FillColor = ColorStatusGreen
		a.dcmtkStatusLabel.SetText("dcmtk: OK")
	} else {
		a.dcmtkStatusCircle.FillColor = ColorStatusRed
		a.dcmtkStatusLabel.SetText("dcmtk: Missing")
	}
	a.dcmtkStatusCircle.Refresh()
}

func (a *App) showDcmtkInstallDialog() {
	installed := dcm.CheckDcmtkInstalled()

	var status *widget.Label
	if installed {
		status = widget.NewLabel("dcmtk is installed. JPEG-LS slices can be shown in the viewer.")
	} else {
		status = widget.NewLabel("dcmtk is NOT installed.\n\nScanning works without it, but JPEG-LS compressed slices cannot be shown in the slice viewer.")
	}
	status.Wrapping = fyne.TextWrapWord

	commandLabel := widget.NewLabel(dcm.InstallHint())
	commandLabel.Wrapping = fyne.TextWrapWord

	var installBtn *widget.Button
	installBtn = widget.NewButton("Install dcmtk", func() {
		command := dcm.InstallCommand()
		if command == "" {
			status.SetText("Automatic install is not available on this OS. Use the command below.")
			return
		}
		installBtn.Disable()
		status.SetText("Installing dcmtk. This may take a minute...")

		go func() {
			output, err := exec.Command("bash", "-lc", command).CombinedOutput()
			fyne.Do(func() {
				if err != nil {
					a.log.WithError(err).WithField("output", strings.TrimSpace(string(output))).Error("dcmtk install failed")
					status.SetText("Install failed. See details in the log output.")
					dialog.ShowError(err, a.mainWindow)
					installBtn.Enable()
					return
				}
				status.SetText("dcmtk installed successfully!")
				a.updateDcmtkStatus()
				installBtn.Hide()
			})
		}()
	})
	if installed {
		installBtn.Hide()
	}

	content := container.NewVBox(
		status,
		widget.NewSeparator(),
		widget.NewLabel("Manual installation command:"),
		commandLabel,
		installBtn,
	)

	title := "dcmtk Status"
	if !installed {
		title = "dcmtk Missing"
	}
	d := dialog.NewCustom(title, "Close", content, a.mainWindow)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}
