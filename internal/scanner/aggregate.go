package scanner

import (
	"time"

	"dicom-info/internal/config"
	"dicom-info/internal/dicom"
	"dicom-info/internal/identity"
	"dicom-info/internal/patient"
)

// aggregator folds slice records into summaries keyed by patient key.
// It is owned by the scan worker and never shared.
type aggregator struct {
	opts  Options
	now   func() time.Time
	order []string
	byKey map[string]*entry
}

type entry struct {
	summary patient.Summary
	folders map[string]bool
}

func newAggregator(opts Options, now func() time.Time) *aggregator {
	return &aggregator{
		opts:  opts,
		now:   now,
		byKey: make(map[string]*entry),
	}
}

// add folds one record in. folderBytes is the size of the slice files of the
// folder the record came from. It reports whether a new summary was started.
func (a *aggregator) add(rec *dicom.SliceRecord, folder string, folderBytes int64) (*patient.Summary, bool) {
	name := identity.CleanName(rec.GivenName, rec.FamilyName)
	key := identity.PatientKey(name, rec.PatientID)

	e, ok := a.byKey[key]
	if !ok {
		e = &entry{
			summary: a.newSummary(key, name, rec, folder, folderBytes),
			folders: map[string]bool{folder: true},
		}
		a.byKey[key] = e
		a.order = append(a.order, key)
	} else if !e.folders[folder] {
		// only reachable with tree scope
		e.folders[folder] = true
		e.summary.FolderBytes += folderBytes
		e.summary.FolderSize = patient.FormatSize(e.summary.FolderBytes, a.opts.SizePrecision)
	}

	s := &e.summary
	s.SliceCount++
	s.SliceThickness = patient.FormatThickness(rec.SliceThickness)
	s.Files = append(s.Files, rec.Path)
	return s, !ok
}

func (a *aggregator) newSummary(key, name string, rec *dicom.SliceRecord, folder string, folderBytes int64) patient.Summary {
	return patient.Summary{
		Key:              key,
		Name:             patient.OrNA(name),
		PatientID:        patient.OrNA(rec.PatientID),
		BirthDate:        patient.FormatDate(rec.BirthDate),
		Age:              patient.Age(rec.BirthDate, a.referenceDate(rec)),
		Sex:              patient.OrNA(rec.Sex),
		StudyDate:        patient.FormatDate(rec.StudyDate),
		StudyDescription: patient.OrNA(rec.StudyDescription),
		Manufacturer:     patient.OrNA(rec.Manufacturer),
		Equipment:        patient.OrNA(rec.ModelName),
		Modality:         patient.OrNA(rec.Modality),
		FolderBytes:      folderBytes,
		FolderSize:       patient.FormatSize(folderBytes, a.opts.SizePrecision),
		Folder:           folder,
	}
}

func (a *aggregator) referenceDate(rec *dicom.SliceRecord) time.Time {
	if a.opts.AgeReference == config.AgeFromStudy {
		if t, err := patient.ParseDate(rec.StudyDate); err == nil {
			return t
		}
	}
	return a.now()
}

// flush returns the summaries in first-seen key order and resets the map.
func (a *aggregator) flush() []patient.Summary {
	out := make([]patient.Summary, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.byKey[key].summary)
	}
	a.discard()
	return out
}

func (a *aggregator) discard() {
	a.order = nil
	a.byKey = make(map[string]*entry)
}
