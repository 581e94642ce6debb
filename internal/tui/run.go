package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"dicom-info/internal/config"
	"dicom-info/internal/patient"
	"dicom-info/internal/progress"
	"dicom-info/internal/scanner"
)

// programSink forwards scan events to a running program.
type programSink struct {
	p *tea.Program
}

func (s programSink) Push(summary patient.Summary) {
	s.p.Send(SummaryMsg{Summary: summary})
}

func (s programSink) Complete(int) {}

func (s programSink) Clear() {}

func (s programSink) FolderStarted(folder string) {
	s.p.Send(FolderMsg{Folder: folder})
}

func (s programSink) FileSkipped(path string, err error) {
	s.p.Send(SkippedMsg{Path: path, Err: err})
}

// Run scans root in the background and shows the results as they arrive.
// An empty root asks for one first.
func Run(ctx context.Context, root string, cfg *config.Config, logger log.Interface) error {
	if cfg == nil {
		cfg = config.Default()
	}

	if root == "" {
		var err error
		if root, err = PromptRoot(); err != nil {
			return err
		}
	}

	skips, err := progress.NewSkipLog(cfg.SkipLogFile)
	if err != nil {
		return err
	}
	defer skips.Close()

	s := scanner.New(scanner.OptionsFromConfig(cfg),
		scanner.WithSkipLog(skips),
		scanner.WithLogger(logger),
	)
	sc, err := s.Start(ctx, root)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(sc.Root, sc.Cancel), tea.WithContext(ctx))
	go func() {
		res := scanner.Drain(sc.Events(), programSink{p: p})
		p.Send(CompletionMsg{Result: res})
	}()

	_, runErr := p.Run()

	// quitting early still stops and waits for the worker
	sc.Cancel()
	sc.Wait()

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI failed: %w", runErr)
	}
	return nil
}

// PromptRoot asks for the directory to scan.
func PromptRoot() (string, error) {
	var root string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("DICOM folder").
				Description("Directory to scan for slice files").
				Value(&root).
				Validate(validateRoot),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(root), nil
}

func validateRoot(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("folder is required")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("folder does not exist")
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder")
	}
	return nil
}
