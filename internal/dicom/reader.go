package dicom

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-info/internal/identity"
)

// Dataset wraps a DICOM dataset for easier access
type Dataset struct {
	Data     dicom.Dataset
	FilePath string
}

// SliceRecord holds the header fields of a single slice file.
type SliceRecord struct {
	Path string
	Size int64

	FamilyName       string
	GivenName        string
	PatientID        string
	BirthDate        string
	Sex              string
	StudyDate        string
	StudyDescription string
	Manufacturer     string
	ModelName        string
	Modality         string
	SliceThickness   string
	InstanceNumber   int
}

// MetadataReader reads slice headers from disk.
type MetadataReader struct{}

// ReadSlice implements the scanner's reader contract.
func (MetadataReader) ReadSlice(path string) (*SliceRecord, error) {
	return ReadSlice(path)
}

// ReadDicom reads a DICOM file including pixel data.
func ReadDicom(path string) (*Dataset, error) {
	return parseFile(path, nil)
}

// ReadDicomMetadataOnly reads only the metadata (no pixel data).
func ReadDicomMetadataOnly(path string) (*Dataset, error) {
	return parseFile(path, []dicom.ParseOption{dicom.SkipPixelData()})
}

func parseFile(path string, opts []dicom.ParseOption) (*Dataset, error) {
	if !hasDicomMagicBytes(path) {
		return nil, fmt.Errorf("not a DICOM file (missing DICM preamble): %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{
		Data:     ds,
		FilePath: path,
	}, nil
}

// ReadSlice parses the header of a slice file into a SliceRecord.
func ReadSlice(path string) (*SliceRecord, error) {
	ds, err := ReadDicomMetadataOnly(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	family, given := identity.SplitPersonName(ds.GetPatientName())
	return &SliceRecord{
		Path:             path,
		Size:             info.Size(),
		FamilyName:       family,
		GivenName:        given,
		PatientID:        strings.TrimSpace(ds.GetPatientID()),
		BirthDate:        strings.TrimSpace(ds.GetPatientBirthDate()),
		Sex:              strings.TrimSpace(ds.GetString(tag.PatientSex)),
		StudyDate:        strings.TrimSpace(ds.GetString(tag.StudyDate)),
		StudyDescription: strings.TrimSpace(ds.GetString(tag.StudyDescription)),
		Manufacturer:     strings.TrimSpace(ds.GetString(tag.Manufacturer)),
		ModelName:        strings.TrimSpace(ds.GetString(tag.ManufacturerModelName)),
		Modality:         strings.TrimSpace(ds.GetModality()),
		SliceThickness:   strings.TrimSpace(ds.GetString(tag.SliceThickness)),
		InstanceNumber:   ds.GetInt(tag.InstanceNumber),
	}, nil
}

// GetString returns a string value for a tag, or empty string if not found.
func (d *Dataset) GetString(t tag.Tag) string {
	elem, err := d.Data.FindElementByTag(t)
	if err != nil {
		return ""
	}

	if elem.Value == nil {
		return ""
	}

	value := elem.Value.GetValue()
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	case string:
		return v
	case []int:
		if len(v) > 0 {
			return strconv.Itoa(v[0])
		}
		return ""
	}

	return fmt.Sprintf("%v", value)
}

// GetInt returns an integer value for a tag, or 0 if absent or not numeric.
// IS and DS values are stored as strings and are converted.
func (d *Dataset) GetInt(t tag.Tag) int {
	elem, err := d.Data.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return 0
	}

	switch v := elem.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0]
		}
	case []string:
		if len(v) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(v[0]))
			if err == nil {
				return n
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v[0]), 64)
			if err == nil {
				return int(f)
			}
		}
	}
	return 0
}

// GetFloat returns a float value for a DS tag with a fallback.
func (d *Dataset) GetFloat(t tag.Tag, fallback float64) float64 {
	s := strings.TrimSpace(d.GetString(t))
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GetPatientName returns the patient name.
func (d *Dataset) GetPatientName() string {
	return d.GetString(tag.PatientName)
}

// GetPatientID returns the patient ID.
func (d *Dataset) GetPatientID() string {
	return d.GetString(tag.PatientID)
}

// GetPatientBirthDate returns the patient DOB.
func (d *Dataset) GetPatientBirthDate() string {
	return d.GetString(tag.PatientBirthDate)
}

// GetTransferSyntax returns the transfer syntax UID.
func (d *Dataset) GetTransferSyntax() string {
	return d.GetString(tag.TransferSyntaxUID)
}

// GetModality returns the DICOM modality (e.g., "US", "CT", "MR", "CR", "DX").
func (d *Dataset) GetModality() string {
	return d.GetString(tag.Modality)
}
