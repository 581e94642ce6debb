package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"dicom-info/internal/config"
	"dicom-info/internal/patient"
	"dicom-info/internal/progress"
	"dicom-info/internal/report"
	"dicom-info/internal/scanner"
)

// Options holds CLI configuration options
type Options struct {
	Root       string
	Config     *config.Config
	ReportPath string

	// ReportOnly suppresses the table and writes only the report.
	ReportOnly bool

	Out    io.Writer
	Logger log.Interface
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Run scans opts.Root and prints the patient table.
func Run(ctx context.Context, opts Options) error {
	if opts.Root == "" {
		return fmt.Errorf("input folder is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.Log
	}
	if opts.ReportOnly && opts.ReportPath == "" {
		return fmt.Errorf("report file is required")
	}

	skips, err := progress.NewSkipLog(opts.Config.SkipLogFile)
	if err != nil {
		return err
	}
	defer skips.Close()

	s := scanner.New(scanner.OptionsFromConfig(opts.Config),
		scanner.WithSkipLog(skips),
		scanner.WithLogger(opts.Logger),
	)

	printHeader(opts.Out, opts)

	sink := newStatusSink(opts.Out)
	res, err := s.Run(ctx, opts.Root, sink)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	sink.finish()

	summaries := sink.Summaries()
	if !opts.ReportOnly && len(summaries) > 0 {
		fmt.Fprintln(opts.Out)
		fmt.Fprintln(opts.Out, renderTable(summaries, tableColumns))
	}

	if opts.ReportPath != "" {
		if err := report.Export(opts.ReportPath, opts.Config.ReportTitle, summaries); err != nil {
			return err
		}
	}

	printSummary(opts.Out, res, summaries, skips, opts.ReportPath)
	return nil
}

var tableColumns = []patient.Column{
	patient.ColName, patient.ColPatientID, patient.ColBirthDate, patient.ColAge,
	patient.ColSex, patient.ColStudyDate, patient.ColStudyDescription,
	patient.ColModality, patient.ColEquipment, patient.ColSlices,
	patient.ColThickness, patient.ColFolderSize,
}

func renderTable(summaries []patient.Summary, cols []patient.Column) string {
	rows := make([][]string, len(summaries))
	for i := range summaries {
		rows[i] = summaries[i].Row(cols)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(patient.Titles(cols)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// printHeader prints the CLI header with configuration
func printHeader(w io.Writer, opts Options) {
	fmt.Fprintln(w, "DICOM Info")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Folder:    %s\n", opts.Root)
	fmt.Fprintf(w, "Scope:     %s\n", opts.Config.Scope)
	fmt.Fprintf(w, "Age from:  %s\n", opts.Config.AgeReference)
	fmt.Fprintf(w, "Files:     *%s\n", opts.Config.Extension)
	if opts.ReportPath != "" {
		fmt.Fprintf(w, "Report:    %s\n", opts.ReportPath)
	}
	fmt.Fprintln(w)
}

// printSummary prints the scan summary
func printSummary(w io.Writer, res scanner.Result, summaries []patient.Summary, skips *progress.SkipLog, reportPath string) {
	var bytes int64
	for _, s := range summaries {
		bytes += s.FolderBytes
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	if res.Cancelled() {
		fmt.Fprintf(w, "Cancelled after %s folder(s), partial results shown\n", humanize.Comma(int64(res.Folders)))
	} else {
		fmt.Fprintf(w, "Complete! %d patient(s) in %s\n", res.Patients, res.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Slices:    %s file(s) in %s folder(s)\n", humanize.Comma(int64(res.Files)), humanize.Comma(int64(res.Folders)))
	fmt.Fprintf(w, "Size:      %s\n", humanize.Bytes(uint64(bytes)))
	fmt.Fprintf(w, "Skipped:   %s\n", skips.Summary())
	if reportPath != "" {
		fmt.Fprintf(w, "Report:    %s\n", reportPath)
	}
}

// statusSink collects summaries and keeps a one-line status up to date.
type statusSink struct {
	scanner.Collector
	w        io.Writer
	folders  int
	patients int
	skipped  int
}

func newStatusSink(w io.Writer) *statusSink {
	return &statusSink{w: w}
}

func (s *statusSink) Push(p patient.Summary) {
	s.Collector.Push(p)
	s.patients++
	s.update()
}

func (s *statusSink) FolderStarted(string) {
	s.folders++
	s.update()
}

func (s *statusSink) FileSkipped(string, error) {
	s.skipped++
	s.update()
}

func (s *statusSink) update() {
	fmt.Fprintf(s.w, "\rScanning: %s folder(s), %d patient(s), %d skipped",
		humanize.Comma(int64(s.folders)), s.patients, s.skipped)
}

func (s *statusSink) finish() {
	s.update()
	fmt.Fprintln(s.w)
}
