// Package tui shows a scan as a live terminal table.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"dicom-info/internal/patient"
	"dicom-info/internal/scanner"
)

// FolderMsg is sent when the scan enters a folder
type FolderMsg struct {
	Folder string
}

// SummaryMsg carries one patient row
type SummaryMsg struct {
	Summary patient.Summary
}

// SkippedMsg is sent for every file left out of the aggregation
type SkippedMsg struct {
	Path string
	Err  error
}

// CompletionMsg is sent once the scan has finished or was cancelled
type CompletionMsg struct {
	Result scanner.Result
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	headerCellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	tableBorder     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var columns = []patient.Column{
	patient.ColName, patient.ColPatientID, patient.ColAge, patient.ColSex,
	patient.ColStudyDate, patient.ColStudyDescription, patient.ColModality,
	patient.ColSlices, patient.ColThickness, patient.ColFolderSize,
}

// Model is the bubbletea model of a running scan.
type Model struct {
	root      string
	cancel    func() bool
	summaries []patient.Summary
	folders   int
	skipped   int
	folder    string
	started   time.Time

	cancelling bool
	done       bool
	result     scanner.Result

	offset int
	width  int
	height int
}

// NewModel creates the model. cancel is called on the first ctrl+c while
// the scan is running.
func NewModel(root string, cancel func() bool) *Model {
	return &Model{
		root:    root,
		cancel:  cancel,
		started: time.Now(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			if !m.cancelling && m.cancel != nil {
				m.cancelling = m.cancel()
			}
		case "q", "esc", "enter":
			if m.done {
				return m, tea.Quit
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.summaries)-1 {
				m.offset++
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case FolderMsg:
		m.folders++
		m.folder = msg.Folder
	case SummaryMsg:
		m.summaries = append(m.summaries, msg.Summary)
	case SkippedMsg:
		m.skipped++
	case CompletionMsg:
		m.done = true
		m.result = msg.Result
	}

	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("DICOM Info: " + m.root))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("%s folder(s), %d patient(s), %d skipped, %.1fs",
		humanize.Comma(int64(m.folders)), len(m.summaries), m.skipped, m.elapsed().Seconds())))
	sb.WriteString("\n")

	switch {
	case m.done && m.result.Cancelled():
		sb.WriteString(warnStyle.Render("Scan cancelled, partial results shown"))
	case m.done:
		sb.WriteString(doneStyle.Render(fmt.Sprintf("Scan complete: %d patient(s)", m.result.Patients)))
	case m.cancelling:
		sb.WriteString(warnStyle.Render("Cancelling..."))
	default:
		sb.WriteString(folderStyle.Render(m.folder))
	}
	sb.WriteString("\n\n")

	if len(m.summaries) > 0 {
		sb.WriteString(m.renderTable())
		sb.WriteString("\n\n")
	}

	if m.done {
		sb.WriteString(hintStyle.Render("Press Enter or q to exit, arrows to scroll"))
	} else {
		sb.WriteString(hintStyle.Render("Press Ctrl+C to cancel"))
	}
	return sb.String()
}

func (m *Model) elapsed() time.Duration {
	if m.done {
		return m.result.Duration
	}
	return time.Since(m.started)
}

// visibleRows is the number of table rows that fit the terminal.
func (m *Model) visibleRows() int {
	if m.height <= 0 {
		return 20
	}
	// title, status, state, blank lines, borders, header and hint
	return max(3, m.height-10)
}

func (m *Model) renderTable() string {
	start := min(m.offset, len(m.summaries)-1)
	end := min(len(m.summaries), start+m.visibleRows())
	if !m.done && end < len(m.summaries) {
		// follow the newest rows while the scan is running
		end = len(m.summaries)
		start = max(0, end-m.visibleRows())
	}

	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.summaries[i].Row(columns))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers(patient.Titles(columns)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
	if m.width > 0 {
		t = t.Width(m.width)
	}
	return t.String()
}

// Summaries returns the rows received so far.
func (m *Model) Summaries() []patient.Summary {
	return m.summaries
}

// Done reports whether the scan has finished.
func (m *Model) Done() bool {
	return m.done
}
