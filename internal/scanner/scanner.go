// Package scanner walks a directory tree of DICOM slice files and aggregates
// them into per-patient summaries that are delivered to a display sink as
// the walk progresses.
package scanner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"dicom-info/internal/config"
	"dicom-info/internal/dicom"
	"dicom-info/internal/identity"
	"dicom-info/internal/progress"
)

// Reader reads the header of one slice file.
type Reader interface {
	ReadSlice(path string) (*dicom.SliceRecord, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(path string) (*dicom.SliceRecord, error)

func (f ReaderFunc) ReadSlice(path string) (*dicom.SliceRecord, error) {
	return f(path)
}

// Options control aggregation and formatting.
type Options struct {
	Extension     string
	Scope         string
	AgeReference  string
	SizePrecision int
}

// OptionsFromConfig extracts scanner options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extension:     cfg.Extension,
		Scope:         cfg.Scope,
		AgeReference:  cfg.AgeReference,
		SizePrecision: cfg.SizePrecision,
	}
}

// Scanner starts scans. One Scanner can run scans for several roots; the
// registry rejects a root that was already analyzed.
type Scanner struct {
	opts     Options
	reader   Reader
	registry *progress.Registry
	skips    *progress.SkipLog
	log      log.Interface
	now      func() time.Time
	buffer   int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReader replaces the slice header reader.
func WithReader(r Reader) Option {
	return func(s *Scanner) { s.reader = r }
}

// WithRegistry shares an analyzed-roots registry with the caller.
func WithRegistry(r *progress.Registry) Option {
	return func(s *Scanner) { s.registry = r }
}

// WithSkipLog records skipped files in l.
func WithSkipLog(l *progress.SkipLog) Option {
	return func(s *Scanner) { s.skips = l }
}

// WithLogger sets the logger.
func WithLogger(l log.Interface) Option {
	return func(s *Scanner) { s.log = l }
}

// WithClock sets the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithBuffer sets the capacity of the event channel.
func WithBuffer(n int) Option {
	return func(s *Scanner) { s.buffer = n }
}

// New creates a scanner.
func New(opts Options, options ...Option) *Scanner {
	if opts.Extension == "" {
		opts.Extension = dicom.DefaultExtension
	}
	if opts.Scope == "" {
		opts.Scope = config.ScopeFolder
	}
	if opts.AgeReference == "" {
		opts.AgeReference = config.AgeFromStudy
	}

	s := &Scanner{
		opts:     opts,
		reader:   dicom.MetadataReader{},
		registry: progress.NewRegistry(),
		log:      log.Log,
		now:      time.Now,
		buffer:   64,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Registry returns the analyzed-roots registry.
func (s *Scanner) Registry() *progress.Registry {
	return s.registry
}

// Scan is one running scan.
type Scan struct {
	ID     string
	Root   string
	token  *Token
	events chan Event
	done   chan struct{}
	result Result
}

// Events returns the event stream. It is closed after EventComplete.
func (sc *Scan) Events() <-chan Event {
	return sc.events
}

// Token returns the cancellation handle.
func (sc *Scan) Token() *Token {
	return sc.token
}

// Cancel requests cancellation of the scan.
func (sc *Scan) Cancel() bool {
	return sc.token.Cancel()
}

// Wait blocks until the worker has finished and returns its result.
// Events must be drained concurrently or beforehand.
func (sc *Scan) Wait() Result {
	<-sc.done
	return sc.result
}

// Start validates root, claims it in the registry and starts the worker.
func (s *Scanner) Start(ctx context.Context, root string) (*Scan, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingDirectory, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMissingDirectory, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingDirectory, root, err)
	}

	if !s.registry.Claim(root) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnalyzed, root)
	}

	sc := &Scan{
		ID:     uuid.NewString(),
		Root:   progress.Key(root),
		token:  newToken(ctx),
		events: make(chan Event, s.buffer),
		done:   make(chan struct{}),
	}
	go s.run(sc)
	return sc, nil
}

// Run starts a scan and drains it into sink on the calling goroutine.
func (s *Scanner) Run(ctx context.Context, root string, sink Sink) (Result, error) {
	sc, err := s.Start(ctx, root)
	if err != nil {
		return Result{}, err
	}
	return Drain(sc.Events(), sink), nil
}

func (s *Scanner) run(sc *Scan) {
	defer close(sc.done)
	defer close(sc.events)

	started := time.Now()
	logger := s.log.WithFields(log.Fields{
		"scan": sc.ID,
		"root": sc.Root,
	})
	logger.Info("scan started")

	res := Result{ScanID: sc.ID, Root: sc.Root}
	agg := newAggregator(s.opts, s.now)
	cancelled := false

	walkErr := dicom.WalkFolders(sc.Root, func(folder string, err error) error {
		if sc.token.requested() {
			cancelled = true
			return dicom.ErrStopWalk
		}
		if err != nil {
			logger.WithError(err).WithField("folder", folder).Warn("skipping unreadable folder")
			return nil
		}

		res.Folders++
		sc.events <- Event{Kind: EventFolder, Folder: folder}

		files, err := dicom.ListSliceFiles(folder, s.opts.Extension)
		if err != nil {
			logger.WithError(err).WithField("folder", folder).Warn("could not list folder")
			return nil
		}

		if !s.foldFolder(sc, logger, agg, folder, files, &res) || sc.token.requested() {
			cancelled = true
			return dicom.ErrStopWalk
		}

		if s.opts.Scope == config.ScopeFolder {
			s.emit(sc, agg, &res)
		}
		return nil
	})

	if walkErr != nil {
		logger.WithError(walkErr).Error("walk aborted")
	}
	if cancelled {
		agg.discard()
		res.Err = ErrCancelled
	} else if s.opts.Scope == config.ScopeTree {
		s.emit(sc, agg, &res)
	}

	res.Duration = time.Since(started)
	sc.token.finish(cancelled)

	status := progress.StatusCompleted
	if cancelled {
		status = progress.StatusCancelled
	}
	s.registry.Finish(sc.Root, status, res.Folders, res.Patients, res.Skipped)

	logger.WithFields(log.Fields{
		"folders":  res.Folders,
		"files":    res.Files,
		"skipped":  res.Skipped,
		"patients": res.Patients,
		"duration": res.Duration.Round(time.Millisecond).String(),
		"state":    sc.token.State().String(),
	}).Info("scan finished")

	sc.result = res
	sc.events <- Event{Kind: EventComplete, Result: res}
}

// foldFolder reads every slice of one folder into agg. It returns false when
// cancellation was observed before the folder was exhausted.
func (s *Scanner) foldFolder(sc *Scan, logger log.Interface, agg *aggregator, folder string, files []dicom.SliceFile, res *Result) bool {
	folderBytes := dicom.FolderSize(files)

	for _, f := range files {
		if sc.token.requested() {
			return false
		}

		rec, err := s.reader.ReadSlice(f.Path)
		if err != nil {
			ferr := &InvalidFileError{Path: f.Path, Err: err}
			logger.WithFields(log.Fields{
				"path":  f.Path,
				"error": err,
			}).Warn("skipping invalid slice file")
			if s.skips != nil {
				s.skips.Log(f.Path, err.Error())
			}
			res.Skipped++
			sc.events <- Event{Kind: EventSkipped, Folder: folder, Err: ferr}
			continue
		}

		res.Files++
		summary, created := agg.add(rec, folder, folderBytes)
		if created && identity.IsPlaceholder(identity.CleanName(rec.GivenName, rec.FamilyName), rec.BirthDate) {
			logger.WithFields(log.Fields{
				"patient": summary.Key,
				"folder":  folder,
			}).Warn("patient has a placeholder identity")
		}
	}
	return true
}

func (s *Scanner) emit(sc *Scan, agg *aggregator, res *Result) {
	for _, summary := range agg.flush() {
		res.Patients++
		sc.events <- Event{Kind: EventSummary, Summary: summary}
	}
}
